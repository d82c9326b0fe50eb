package qmeasure

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
)

type Vec2Cfg struct {
	X Real `json:"x"`
	Y Real `json:"y"`
}

func (v Vec2Cfg) vec() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

type CoinCfg struct {
	Bias       Real   `json:"bias"`
	Size       int    `json:"size,omitempty"`
	HeadsLabel string `json:"headsLabel,omitempty"`
	TailsLabel string `json:"tailsLabel,omitempty"`
}

type DeviceCfg struct {
	Axis     string `json:"axis,omitempty"`     // "X", "Y", "Z"
	AngleDeg *Real  `json:"angleDeg,omitempty"` // custom tilt from +Z in the X-Z plane
	Inactive bool   `json:"inactive,omitempty"`
}

type SpinCfg struct {
	Preparation    string      `json:"preparation"` // "+Z", "-X", ...
	PrecessionRate Real        `json:"precessionRate,omitempty"`
	Rate           Real        `json:"rate,omitempty"` // particles per second
	Devices        []DeviceCfg `json:"devices"`
}

type ElementCfg struct {
	Kind     string  `json:"kind"` // mirror | beamsplitter | detector
	Name     string  `json:"name,omitempty"`
	A        Vec2Cfg `json:"a"`
	B        Vec2Cfg `json:"b"`
	AngleDeg Real    `json:"angleDeg,omitempty"` // beam splitter transmission axis
}

type PhotonCfg struct {
	Origin          Vec2Cfg      `json:"origin"`
	Direction       Vec2Cfg      `json:"direction"`
	PolarizationDeg Real         `json:"polarizationDeg,omitempty"`
	Rate            Real         `json:"rate,omitempty"`
	Speed           Real         `json:"speed,omitempty"`
	Elements        []ElementCfg `json:"elements"`
}

type Config struct {
	Seed   int64      `json:"seed,omitempty"`
	Frames int        `json:"frames,omitempty"`
	DT     Real       `json:"dt,omitempty"`
	Coin   *CoinCfg   `json:"coin,omitempty"`
	Spin   *SpinCfg   `json:"spin,omitempty"`
	Photon *PhotonCfg `json:"photon,omitempty"`
}

// Build validates and constructs the runtime ensemble.
func (c CoinCfg) Build(rng *RandomSource) (*TwoOutcomeEnsemble, error) {
	size := c.Size
	if size == 0 {
		size = DefaultEnsembleSize
	}
	heads, tails := c.HeadsLabel, c.TailsLabel
	if heads == "" {
		heads = "heads"
	}
	if tails == "" {
		tails = "tails"
	}
	return NewTwoOutcomeEnsemble([2]string{heads, tails}, size, c.Bias, OutcomeA, rng)
}

func (d DeviceCfg) Build() (*SternGerlachDevice, error) {
	var axis MeasurementAxis
	switch {
	case d.AngleDeg != nil:
		axis = CustomAxis(*d.AngleDeg * math.Pi / 180)
	case d.Axis == "Z" || d.Axis == "+Z":
		axis = AxisZ
	case d.Axis == "X" || d.Axis == "+X":
		axis = AxisX
	case d.Axis == "Y" || d.Axis == "+Y":
		axis = AxisY
	case d.Axis == "":
		return nil, fmt.Errorf("%w: device needs an axis or angleDeg", ErrInvalidConfiguration)
	default:
		return nil, fmt.Errorf("%w: unknown device axis %q", ErrInvalidConfiguration, d.Axis)
	}
	dev, err := NewSternGerlachDevice(axis)
	if err != nil {
		return nil, err
	}
	dev.Active = !d.Inactive
	return dev, nil
}

func (s SpinCfg) Build(rng *RandomSource) (*SternGerlachExperiment, error) {
	prep, err := ParseDirection(s.Preparation)
	if err != nil {
		return nil, err
	}
	rate := s.Rate
	if rate == 0 {
		rate = DefaultParticleRate
	}
	devices := make([]*SternGerlachDevice, 0, len(s.Devices))
	for i, dc := range s.Devices {
		dev, err := dc.Build()
		if err != nil {
			return nil, fmt.Errorf("device %d: %w", i, err)
		}
		devices = append(devices, dev)
	}
	return NewSternGerlachExperiment(prep, rate, rng, devices...)
}

func (e ElementCfg) Build() (OpticalElement, error) {
	switch e.Kind {
	case "mirror":
		return NewMirror(e.A.vec(), e.B.vec())
	case "beamsplitter":
		return NewPolarizingBeamSplitter(e.A.vec(), e.B.vec(), e.AngleDeg*math.Pi/180)
	case "detector":
		return NewDetector(e.Name, e.A.vec(), e.B.vec(), DefaultRateAlpha)
	}
	return nil, fmt.Errorf("%w: unknown element kind %q", ErrInvalidConfiguration, e.Kind)
}

func (p PhotonCfg) Build(rng *RandomSource) (*PhotonField, error) {
	rate := p.Rate
	if rate == 0 {
		rate = DefaultPhotonRate
	}
	speed := p.Speed
	if speed == 0 {
		speed = DefaultPhotonSpeed
	}
	emitter, err := NewPhotonEmitter(p.Origin.vec(), p.Direction.vec(), p.PolarizationDeg*math.Pi/180, rate)
	if err != nil {
		return nil, err
	}
	elements := make([]OpticalElement, 0, len(p.Elements))
	for i, ec := range p.Elements {
		el, err := ec.Build()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elements = append(elements, el)
	}
	return NewPhotonField(emitter, speed, rng, elements...)
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	// Defaults / validation
	if cfg.Frames <= 0 {
		cfg.Frames = DefaultFrames
	}
	if cfg.DT <= 0 {
		cfg.DT = DefaultDT
	}
	if cfg.Coin == nil && cfg.Spin == nil && cfg.Photon == nil {
		return nil, fmt.Errorf("%w: config has no experiments", ErrInvalidConfiguration)
	}
	logger.Debug().Str("path", path).Int("frames", cfg.Frames).Float64("dt", cfg.DT).Msg("loaded config")
	return &cfg, nil
}
