package qmeasure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, `{"coin": {"bias": 0.5}}`))
	require.NoError(t, err)
	require.Equal(t, DefaultFrames, cfg.Frames)
	require.InDelta(t, DefaultDT, cfg.DT, 1e-15)

	ens, err := cfg.Coin.Build(NewRandomSource(1))
	require.NoError(t, err)
	require.Equal(t, DefaultEnsembleSize, ens.Size())
	require.Equal(t, "heads", ens.System(0).Label(OutcomeA))
	require.Equal(t, "tails", ens.System(0).Label(OutcomeB))
}

func TestLoadConfigNoExperiments(t *testing.T) {
	_, err := loadConfig(writeConfig(t, `{"seed": 7}`))
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoadConfigBadJSON(t *testing.T) {
	_, err := loadConfig(writeConfig(t, `{"coin": `))
	require.Error(t, err)
}

func TestDeviceCfgBuild(t *testing.T) {
	dev, err := DeviceCfg{Axis: "X"}.Build()
	require.NoError(t, err)
	require.Equal(t, AxisX, dev.Axis)
	require.True(t, dev.Active)

	dev, err = DeviceCfg{Axis: "Z", Inactive: true}.Build()
	require.NoError(t, err)
	require.False(t, dev.Active)

	// angleDeg takes precedence and tilts from +Z in the X-Z plane
	angle := Real(90)
	dev, err = DeviceCfg{AngleDeg: &angle}.Build()
	require.NoError(t, err)
	require.Equal(t, XPlus, dev.Axis.Plus)

	_, err = DeviceCfg{}.Build()
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = DeviceCfg{Axis: "W"}.Build()
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestSpinCfgBuild(t *testing.T) {
	cfg := SpinCfg{
		Preparation: "+Z",
		Devices:     []DeviceCfg{{Axis: "Z"}, {Axis: "X"}},
	}
	exp, err := cfg.Build(NewRandomSource(1))
	require.NoError(t, err)
	require.Equal(t, 2, exp.Stages())
	require.Equal(t, ZPlus, exp.Preparation())

	_, err = SpinCfg{Preparation: "sideways", Devices: []DeviceCfg{{Axis: "Z"}}}.Build(NewRandomSource(1))
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = SpinCfg{Preparation: "+Z"}.Build(NewRandomSource(1))
	require.ErrorIs(t, err, ErrInvalidConfiguration, "no devices")
}

func TestElementCfgBuild(t *testing.T) {
	a, b := Vec2Cfg{X: 0, Y: -1}, Vec2Cfg{X: 0, Y: 1}

	el, err := ElementCfg{Kind: "mirror", A: a, B: b}.Build()
	require.NoError(t, err)
	require.Equal(t, "mirror", el.Kind())

	el, err = ElementCfg{Kind: "beamsplitter", A: a, B: b, AngleDeg: 45}.Build()
	require.NoError(t, err)
	require.Equal(t, "beamsplitter", el.Kind())

	el, err = ElementCfg{Kind: "detector", Name: "d", A: a, B: b}.Build()
	require.NoError(t, err)
	require.Equal(t, "detector", el.Kind())

	_, err = ElementCfg{Kind: "prism", A: a, B: b}.Build()
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = ElementCfg{Kind: "mirror", A: a, B: a}.Build()
	require.ErrorIs(t, err, ErrInvalidConfiguration, "zero-length geometry")
}

func TestPhotonCfgBuild(t *testing.T) {
	cfg := PhotonCfg{
		Origin:    Vec2Cfg{X: -2, Y: 0},
		Direction: Vec2Cfg{X: 1, Y: 0},
		Elements: []ElementCfg{
			{Kind: "beamsplitter", A: Vec2Cfg{X: 0, Y: -1}, B: Vec2Cfg{X: 0, Y: 1}, AngleDeg: 45},
			{Kind: "detector", Name: "t", A: Vec2Cfg{X: 2, Y: -1}, B: Vec2Cfg{X: 2, Y: 1}},
		},
	}
	field, err := cfg.Build(NewRandomSource(1))
	require.NoError(t, err)
	require.Equal(t, DefaultPhotonSpeed, field.Speed)
	require.InDelta(t, DefaultPhotonRate, field.Emitter.Rate, 1e-15)
	require.Len(t, field.Elements(), 2)
	require.Len(t, field.Detectors(), 1)

	cfg.Direction = Vec2Cfg{}
	_, err = cfg.Build(NewRandomSource(1))
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestConfigRoundTrip(t *testing.T) {
	// the shipped demo layout must load and build end to end
	path := writeConfig(t, `{
		"seed": 42,
		"frames": 10,
		"dt": 0.016,
		"coin": {"bias": 0.25, "size": 8},
		"spin": {"preparation": "+Z", "rate": 5, "devices": [{"axis": "Z"}, {"axis": "X"}]},
		"photon": {
			"origin": {"x": -2, "y": 0},
			"direction": {"x": 1, "y": 0},
			"rate": 10,
			"elements": [
				{"kind": "mirror", "a": {"x": 1, "y": -1}, "b": {"x": 1, "y": 1}},
				{"kind": "detector", "name": "down", "a": {"x": 0, "y": -2}, "b": {"x": 2, "y": -2}}
			]
		}
	}`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.EqualValues(t, 42, cfg.Seed)
	require.Equal(t, 10, cfg.Frames)

	rng := NewRandomSource(cfg.Seed)
	ens, err := cfg.Coin.Build(rng)
	require.NoError(t, err)
	require.InDelta(t, 0.25, ens.Bias(), 1e-15)

	exp, err := cfg.Spin.Build(rng)
	require.NoError(t, err)
	require.Equal(t, 2, exp.Stages())

	field, err := cfg.Photon.Build(rng)
	require.NoError(t, err)
	require.Len(t, field.Elements(), 2)
}
