package toonscroll

import (
	"fmt"

	"github.com/gekko3d/toonscroll/render/core"
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
)

type AssetId string

type MaterialKind uint32

const (
	MaterialToon MaterialKind = iota
	MaterialPoints
)

// MaterialAsset describes how a mesh or point cloud is shaded. Materials are
// shared by reference: every entity pointing at the same id sees a colour
// change at once.
type MaterialAsset struct {
	Kind  MaterialKind
	Color colorful.Color

	// Toon
	Gradient AssetId

	// Points
	Size      float32
	Attenuate bool
}

func (m *MaterialAsset) RGBA() [4]float32 {
	return [4]float32{float32(m.Color.R), float32(m.Color.G), float32(m.Color.B), 1}
}

type PointCloudAsset struct {
	Positions [][3]float32
}

type AssetServer struct {
	geometries map[AssetId]*core.Geometry
	clouds     map[AssetId]*PointCloudAsset
	materials  map[AssetId]*MaterialAsset
	gradients  map[AssetId]*core.GradientRamp
}

type AssetServerModule struct{}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(NewAssetServer())
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		geometries: make(map[AssetId]*core.Geometry),
		clouds:     make(map[AssetId]*PointCloudAsset),
		materials:  make(map[AssetId]*MaterialAsset),
		gradients:  make(map[AssetId]*core.GradientRamp),
	}
}

func (server *AssetServer) AddGeometry(g *core.Geometry) AssetId {
	id := makeAssetId()
	server.geometries[id] = g
	return id
}

func (server *AssetServer) Geometry(id AssetId) *core.Geometry {
	return server.geometries[id]
}

func (server *AssetServer) AddPointCloud(positions [][3]float32) AssetId {
	id := makeAssetId()
	server.clouds[id] = &PointCloudAsset{Positions: positions}
	return id
}

func (server *AssetServer) PointCloud(id AssetId) *PointCloudAsset {
	return server.clouds[id]
}

func (server *AssetServer) AddMaterial(m MaterialAsset) AssetId {
	id := makeAssetId()
	server.materials[id] = &m
	return id
}

func (server *AssetServer) Material(id AssetId) *MaterialAsset {
	return server.materials[id]
}

// LoadGradient decodes a gradient ramp image. A failure leaves the server
// untouched so callers can carry on without the ramp.
func (server *AssetServer) LoadGradient(path string) (AssetId, error) {
	ramp, err := core.LoadGradient(path)
	if err != nil {
		return "", fmt.Errorf("load gradient: %w", err)
	}
	id := makeAssetId()
	server.gradients[id] = ramp
	return id, nil
}

func (server *AssetServer) Gradient(id AssetId) *core.GradientRamp {
	if id == "" {
		return nil
	}
	return server.gradients[id]
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
