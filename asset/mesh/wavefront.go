package mesh

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/vao/asset"
	"github.com/achilleasa/vao/log"
	"github.com/achilleasa/vao/types"
)

// Load a wavefront obj model from a local path or an http(s) URL.
func Load(pathToModel string) (*Model, error) {
	res, err := asset.NewResource(pathToModel, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return ReadWavefront(res)
}

// Parse a wavefront obj model. Only geometry is read: positions, normals and
// faces. Faces with more than 3 vertices are triangulated as fans. Material
// libraries are skipped; "call" statements include other obj files.
func ReadWavefront(res *asset.Resource) (*Model, error) {
	r := newWavefrontReader()

	r.logger.Noticef(`parsing model from "%s"`, res.Path())
	start := time.Now()

	if err := r.parse(res); err != nil {
		return nil, err
	}
	r.verifyLastParsedMesh()

	if len(r.model.Meshes) == 0 {
		return nil, r.emitError(res.Path(), 0, "model contains no faces")
	}

	r.logger.Noticef(
		"parsed %d meshes (%d triangles) in %d ms",
		len(r.model.Meshes), r.model.TriangleCount(), time.Since(start).Nanoseconds()/1e6,
	)
	return r.model, nil
}

// A (vertex, normal) index pair used for de-duplicating face vertices.
type vertexKey struct {
	vertex int
	normal int
}

type wavefrontReader struct {
	logger log.Logger

	model *Model

	// Face vertex de-duplication for the mesh being parsed.
	vertexMap map[vertexKey]uint32

	// List of vertices and normals.
	vertexList []types.Vec3
	normalList []types.Vec3

	// An error stack that provides additional error information when
	// model files include other files.
	errStack []string
}

func newWavefrontReader() *wavefrontReader {
	return &wavefrontReader{
		logger:    log.New("wavefront reader"),
		model:     &Model{},
		vertexMap: make(map[vertexKey]uint32),
	}
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n"))
	} else {
		errMsg = fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n"))
	}

	return fmt.Errorf("%s", strings.Trim(errMsg, "\n"))
}

// Push a frame to the error stack.
func (r *wavefrontReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontReader) popFrame() {
	r.errStack = r.errStack[1:]
}

func (r *wavefrontReader) curMesh() *Mesh {
	if len(r.model.Meshes) == 0 {
		r.startMesh("default")
	}
	return r.model.Meshes[len(r.model.Meshes)-1]
}

func (r *wavefrontReader) startMesh(name string) {
	r.verifyLastParsedMesh()
	r.model.Meshes = append(r.model.Meshes, &Mesh{Name: name})
	r.vertexMap = make(map[vertexKey]uint32)
}

// Drop the last parsed mesh if it contains no faces.
func (r *wavefrontReader) verifyLastParsedMesh() {
	last := len(r.model.Meshes) - 1
	if last >= 0 && len(r.model.Meshes[last].Indices) == 0 {
		r.logger.Warningf(`dropping mesh "%s" as it contains no polygons`, r.model.Meshes[last].Name)
		r.model.Meshes = r.model.Meshes[:last]
	}
}

func (r *wavefrontReader) parse(res *asset.Resource) error {
	var lineNum int

	// Included files use 1-based indices relative to their own vertex
	// lists; track the offsets so faces pick the right coordinates.
	relVertexOffset := len(r.vertexList)
	relNormalOffset := len(r.normalList)

	if r.model.Name == "" {
		r.model.Name = res.Path()
	}

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "call"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [call]", res.Path(), lineNum))
			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			err = r.parse(incRes)
			incRes.Close()
			if err != nil {
				return err
			}
			r.popFrame()
		case "mtllib", "usemtl", "vt", "s":
			r.logger.Debugf(`ignoring "%s" at %s:%d`, lineTokens[0], res.Path(), lineNum)
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.normalList = append(r.normalList, v.Normalize())
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}
			r.startMesh(lineTokens[1])
		case "f":
			if err := r.parseFace(lineTokens, relVertexOffset, relNormalOffset); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}
	return nil
}

// Parse face definition. Each vertex argument uses one of the formats:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate an offset off the
// end of the vertex/normal list.
func (r *wavefrontReader) parseFace(lineTokens []string, relVertexOffset, relNormalOffset int) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	argCount := len(lineTokens) - 1
	keys := make([]vertexKey, argCount)
	expIndices := 0
	hasNormals := true
	for arg := 0; arg < argCount; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		keys[arg] = vertexKey{vertex: vOffset, normal: -1}

		if expIndices > 2 && vTokens[2] != "" {
			nOffset, err := selectFaceCoordIndex(vTokens[2], len(r.normalList), relNormalOffset)
			if err != nil {
				return fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			keys[arg].normal = nOffset
		} else {
			hasNormals = false
		}
	}

	mesh := r.curMesh()

	// Without normals emit flat shaded vertices for this face.
	if !hasNormals {
		v0, v1, v2 := r.vertexList[keys[0].vertex], r.vertexList[keys[1].vertex], r.vertexList[keys[2].vertex]
		faceNormal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

		base := uint32(len(mesh.Positions))
		for _, key := range keys {
			mesh.Positions = append(mesh.Positions, r.vertexList[key.vertex])
			mesh.Normals = append(mesh.Normals, faceNormal)
		}
		for i := 1; i < argCount-1; i++ {
			mesh.Indices = append(mesh.Indices, base, base+uint32(i), base+uint32(i+1))
		}
		return nil
	}

	indices := make([]uint32, argCount)
	for arg, key := range keys {
		index, exists := r.vertexMap[key]
		if !exists {
			index = uint32(len(mesh.Positions))
			mesh.Positions = append(mesh.Positions, r.vertexList[key.vertex])
			mesh.Normals = append(mesh.Normals, r.normalList[key.normal])
			r.vertexMap[key] = index
		}
		indices[arg] = index
	}
	for i := 1; i < argCount-1; i++ {
		mesh.Indices = append(mesh.Indices, indices[0], indices[i], indices[i+1])
	}

	return nil
}

// Given an index for a face coord type (vertex, normal) calculate the proper
// offset into the coord list. Negative indices reference elements from the
// end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
