package scene

import (
	"go.uber.org/zap"

	"github.com/aerostudio/aerocalc/internal/aero"
	"github.com/aerostudio/aerocalc/internal/logger"
	"github.com/aerostudio/aerocalc/pkg/math"
)

// Session is the plain record the project shell persists between runs.
type Session struct {
	MeshPath string `json:"mesh_path,omitempty"`

	CameraPitch float32    `json:"camera_pitch"`
	CameraYaw   float32    `json:"camera_yaw"`
	CameraZoom  float32    `json:"camera_zoom"`
	CameraPan   [3]float32 `json:"camera_pan"`

	ShowGrid bool `json:"show_grid"`
	ShowAxes bool `json:"show_axes"`

	WindPlane *PlaneState `json:"wind_plane,omitempty"`

	Flow aero.FlowConditions `json:"flow"`
}

// PlaneState is the persisted wind-plane record.
type PlaneState struct {
	Width    float32    `json:"width"`
	Height   float32    `json:"height"`
	Position [3]float32 `json:"position"`
	Rotation [3]float32 `json:"rotation"`
}

// ExportState captures the restorable viewport state.
func (c *Controller) ExportState() Session {
	s := Session{
		MeshPath:    c.meshPath,
		CameraPitch: c.Camera.Pitch,
		CameraYaw:   c.Camera.Yaw,
		CameraZoom:  c.Camera.Zoom,
		CameraPan:   [3]float32{c.Camera.Pan.X, c.Camera.Pan.Y, c.Camera.Pan.Z},
		ShowGrid:    c.ShowGrid,
		ShowAxes:    c.ShowAxes,
		Flow:        c.flow,
	}
	if c.windPlane != nil {
		p := c.windPlane
		s.WindPlane = &PlaneState{
			Width:    p.Size.X,
			Height:   p.Size.Y,
			Position: [3]float32{p.Position.X, p.Position.Y, p.Position.Z},
			Rotation: [3]float32{p.Rotation.X, p.Rotation.Y, p.Rotation.Z},
		}
	}
	return s
}

// ImportState restores a previously exported session. A mesh that can
// no longer be loaded is logged and skipped; everything else still
// applies.
func (c *Controller) ImportState(s Session) {
	c.Camera.Pitch = s.CameraPitch
	c.Camera.Yaw = s.CameraYaw
	c.Camera.Zoom = s.CameraZoom
	c.Camera.ZoomDelta(0) // reclamp against current bounds
	c.Camera.Pan = math.Vec3{X: s.CameraPan[0], Y: s.CameraPan[1], Z: s.CameraPan[2]}

	c.ShowGrid = s.ShowGrid
	c.ShowAxes = s.ShowAxes
	c.flow = s.Flow

	if s.WindPlane != nil {
		c.windPlane = &WindPlane{
			Size:     math.Vec2{X: s.WindPlane.Width, Y: s.WindPlane.Height},
			Position: math.Vec3{X: s.WindPlane.Position[0], Y: s.WindPlane.Position[1], Z: s.WindPlane.Position[2]},
			Rotation: math.Vec3{X: s.WindPlane.Rotation[0], Y: s.WindPlane.Rotation[1], Z: s.WindPlane.Rotation[2]},
		}
	} else {
		c.windPlane = nil
	}

	if s.MeshPath != "" {
		if err := c.LoadMesh(s.MeshPath); err != nil {
			logger.Warn("session mesh no longer loads",
				zap.String("path", s.MeshPath),
				zap.Error(err),
			)
		}
	}
}
