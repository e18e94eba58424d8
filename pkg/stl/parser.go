package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/gocull/pkg/geometry"
)

const (
	binaryHeaderSize   = 80
	binaryTriangleSize = 50
)

// ErrMalformed reports an STL file that could not be decoded
var ErrMalformed = errors.New("malformed STL")

// Parse reads an STL file and returns a Model
// It automatically detects whether the file is ASCII or binary format
func Parse(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return ParseReader(file, info.Size())
}

// ParseReader decodes an STL stream of the given size. Binary files whose
// header happens to start with "solid" are recognized by their length.
func ParseReader(r io.ReadSeeker, size int64) (*Model, error) {
	header := make([]byte, binaryHeaderSize+4)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to reset file pointer: %w", err)
	}

	if n == len(header) {
		count := binary.LittleEndian.Uint32(header[binaryHeaderSize:])
		if size == binaryHeaderSize+4+int64(count)*binaryTriangleSize {
			return parseBinary(r, size)
		}
	}
	if n >= 5 && string(header[:5]) == "solid" {
		return parseASCII(r)
	}
	return parseBinary(r, size)
}

// parseASCII parses an ASCII STL file
func parseASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := NewModel("")

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				v, err := parseVector(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
				}
				currentNormal = v
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: vertex needs three coordinates", ErrMalformed, lineNo)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) == 3 {
				model.AddTriangle(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			}
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return model, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var xyz [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		xyz[i] = v
	}
	return geometry.NewVector3(xyz[0], xyz[1], xyz[2]), nil
}

// binaryFacet mirrors the 50-byte little-endian record of a binary STL
type binaryFacet struct {
	Normal     [3]float32
	V1, V2, V3 [3]float32
	Attribute  uint16
}

// parseBinary parses a binary STL file of size bytes. The triangle count
// in the header must fit the size before anything is allocated for it.
func parseBinary(reader io.Reader, size int64) (*Model, error) {
	model := NewModel("")

	header := make([]byte, binaryHeaderSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	model.Name = strings.TrimSpace(string(bytes.TrimRight(header, "\x00")))

	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}
	if need := binaryHeaderSize + 4 + int64(triangleCount)*binaryTriangleSize; need > size {
		return nil, fmt.Errorf("%w: %d triangles need %d bytes, got %d", ErrMalformed, triangleCount, need, size)
	}

	buffered := bufio.NewReader(reader)
	model.Triangles = make([]geometry.Triangle, 0, triangleCount)
	for i := uint32(0); i < triangleCount; i++ {
		var facet binaryFacet
		if err := binary.Read(buffered, binary.LittleEndian, &facet); err != nil {
			return nil, fmt.Errorf("%w: triangle %d: %v", ErrMalformed, i, err)
		}
		model.AddTriangle(geometry.NewTriangle(
			vec(facet.Normal), vec(facet.V1), vec(facet.V2), vec(facet.V3),
		))
	}

	return model, nil
}

func vec(v [3]float32) geometry.Vector3 {
	return geometry.NewVector3(float64(v[0]), float64(v[1]), float64(v[2]))
}

// WriteBinary encodes the model as a binary STL
func WriteBinary(w io.Writer, model *Model) error {
	header := make([]byte, binaryHeaderSize)
	copy(header, model.Name)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(model.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	f32 := func(v geometry.Vector3) [3]float32 {
		return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
	}
	for i, t := range model.Triangles {
		facet := binaryFacet{Normal: f32(t.Normal), V1: f32(t.V1), V2: f32(t.V2), V3: f32(t.V3)}
		if err := binary.Write(w, binary.LittleEndian, &facet); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}
	return nil
}
