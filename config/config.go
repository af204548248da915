// Package config holds the parameters of a vtusim run. Values come from the
// defaults, then a .env file, then VTUSIM_* environment variables, and
// finally command-line flags, each layer overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/sarchlab/vtusim/fixed"
	"github.com/sarchlab/vtusim/mem/l3"
	"github.com/sarchlab/vtusim/orchestrator"
	"github.com/sarchlab/vtusim/sim"
	"github.com/sarchlab/vtusim/traversal"
	"github.com/sarchlab/vtusim/voxel"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "VTUSIM_"

// Latency regimes of the L3 store.
const (
	LatencyFixed   = "fixed"
	LatencyUniform = "uniform"
)

// Config is the full set of run parameters.
type Config struct {
	Bits        int
	FracBits    int
	NumVTUs     int
	L1Size      int
	L2Slots     int
	Radius      int
	Latency     string
	LatencyMin  uint64
	LatencyMax  uint64
	Seed        int64
	MaxSteps    int
	ConnLatency uint64
	Width       int
	Height      int
	DBPath      string
	MonitorPort int
}

// Default returns the configuration of the reference hardware.
func Default() Config {
	return Config{
		Bits:        int(fixed.Q8.Bits()),
		FracBits:    int(fixed.Q8.FracBits()),
		NumVTUs:     4,
		L1Size:      8,
		L2Slots:     16,
		Radius:      voxel.DefaultRadius,
		Latency:     LatencyFixed,
		LatencyMin:  10,
		LatencyMax:  10,
		Seed:        1,
		MaxSteps:    traversal.DefaultMaxSteps,
		ConnLatency: 1,
		Width:       64,
		Height:      32,
		MonitorPort: 0,
	}
}

type field struct {
	name  string
	flag  string
	usage string
	ptr   func(c *Config) any
}

var fields = []field{
	{"BITS", "bits", "total fixed-point width B",
		func(c *Config) any { return &c.Bits }},
	{"FRAC_BITS", "frac-bits", "fractional fixed-point bits D",
		func(c *Config) any { return &c.FracBits }},
	{"VTUS", "vtus", "number of traversal engines",
		func(c *Config) any { return &c.NumVTUs }},
	{"L1_SIZE", "l1-size", "entries of the shared L1 cache",
		func(c *Config) any { return &c.L1Size }},
	{"L2_SLOTS", "l2-slots", "slots of the L2 cache",
		func(c *Config) any { return &c.L2Slots }},
	{"RADIUS", "radius", "half side of the L3 volume",
		func(c *Config) any { return &c.Radius }},
	{"LATENCY", "latency", "L3 latency regime, fixed or uniform",
		func(c *Config) any { return &c.Latency }},
	{"LATENCY_MIN", "latency-min", "L3 latency, or its lower bound",
		func(c *Config) any { return &c.LatencyMin }},
	{"LATENCY_MAX", "latency-max", "upper bound of the uniform L3 latency",
		func(c *Config) any { return &c.LatencyMax }},
	{"SEED", "seed", "seed of the uniform L3 latency and the terrain",
		func(c *Config) any { return &c.Seed }},
	{"MAX_STEPS", "max-steps", "DDA steps before a ray is exhausted",
		func(c *Config) any { return &c.MaxSteps }},
	{"CONN_LATENCY", "conn-latency", "cycles taken by every connection",
		func(c *Config) any { return &c.ConnLatency }},
	{"WIDTH", "width", "frame width in pixels",
		func(c *Config) any { return &c.Width }},
	{"HEIGHT", "height", "frame height in pixels",
		func(c *Config) any { return &c.Height }},
	{"DB", "db", "SQLite recording path, without extension",
		func(c *Config) any { return &c.DBPath }},
	{"MONITOR_PORT", "monitor-port", "port of the monitoring server",
		func(c *Config) any { return &c.MonitorPort }},
}

func setValue(ptr any, s string) error {
	var err error

	switch p := ptr.(type) {
	case *int:
		*p, err = strconv.Atoi(s)
	case *int64:
		*p, err = strconv.ParseInt(s, 10, 64)
	case *uint64:
		*p, err = strconv.ParseUint(s, 10, 64)
	case *string:
		*p = s
	default:
		panic(fmt.Sprintf("unsupported config field type %T", ptr))
	}

	return err
}

func (c *Config) apply(lookup func(key string) (string, bool)) error {
	for _, f := range fields {
		s, ok := lookup(EnvPrefix + f.name)
		if !ok {
			continue
		}

		if err := setValue(f.ptr(c), s); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, f.name, err)
		}
	}

	return nil
}

// LoadEnvFile applies the VTUSIM_* entries of a .env file without touching
// the process environment.
func (c *Config) LoadEnvFile(path string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	return c.apply(func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	})
}

// LoadEnv applies the VTUSIM_* environment variables.
func (c *Config) LoadEnv() error {
	return c.apply(os.LookupEnv)
}

// Load builds a configuration from the defaults, the .env file at envFile
// and the environment. A missing .env file is not an error.
func Load(envFile string) (Config, error) {
	c := Default()

	if envFile != "" {
		err := c.LoadEnvFile(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return c, err
		}
	}

	if err := c.LoadEnv(); err != nil {
		return c, err
	}

	return c, nil
}

type flagValue struct {
	ptr any
}

func (v flagValue) String() string {
	switch p := v.ptr.(type) {
	case *int:
		return strconv.Itoa(*p)
	case *int64:
		return strconv.FormatInt(*p, 10)
	case *uint64:
		return strconv.FormatUint(*p, 10)
	case *string:
		return *p
	}

	return ""
}

func (v flagValue) Set(s string) error {
	return setValue(v.ptr, s)
}

func (v flagValue) Type() string {
	switch v.ptr.(type) {
	case *int:
		return "int"
	case *int64:
		return "int64"
	case *uint64:
		return "uint64"
	}

	return "string"
}

// RegisterFlags adds one flag per field to fs. The flags write into a
// scratch copy of the defaults; ApplyFlags copies the ones that were set.
func RegisterFlags(fs *pflag.FlagSet) {
	scratch := Default()

	for _, f := range fields {
		fs.Var(flagValue{f.ptr(&scratch)}, f.flag, f.usage)
	}
}

// ApplyFlags overrides the fields whose flags were given on the command line.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error

	fs.Visit(func(pf *pflag.Flag) {
		if err != nil {
			return
		}

		for _, f := range fields {
			if f.flag == pf.Name {
				err = setValue(f.ptr(c), pf.Value.String())
			}
		}
	})

	return err
}

// Validate reports the first inconsistent parameter.
func (c Config) Validate() error {
	if _, err := c.Format(); err != nil {
		return err
	}

	switch {
	case c.NumVTUs < 1:
		return fmt.Errorf("vtus must be positive, got %d", c.NumVTUs)
	case c.L1Size < 1:
		return fmt.Errorf("l1-size must be positive, got %d", c.L1Size)
	case c.L2Slots < 1:
		return fmt.Errorf("l2-slots must be positive, got %d", c.L2Slots)
	case c.Radius < 1 || c.Radius > voxel.DefaultRadius:
		return fmt.Errorf("radius must be in [1, %d], got %d",
			voxel.DefaultRadius, c.Radius)
	case c.MaxSteps < 1:
		return fmt.Errorf("max-steps must be positive, got %d", c.MaxSteps)
	case c.ConnLatency < 1:
		return fmt.Errorf("conn-latency must be at least 1, got %d",
			c.ConnLatency)
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	case c.MonitorPort < 0 || c.MonitorPort > 65535:
		return fmt.Errorf("invalid monitor port %d", c.MonitorPort)
	}

	return c.validateLatency()
}

func (c Config) validateLatency() error {
	switch c.Latency {
	case LatencyFixed:
		if c.LatencyMin < 1 {
			return fmt.Errorf("latency must be at least 1, got %d",
				c.LatencyMin)
		}
	case LatencyUniform:
		if c.LatencyMin < 1 || c.LatencyMax < c.LatencyMin {
			return fmt.Errorf("invalid uniform latency range [%d, %d]",
				c.LatencyMin, c.LatencyMax)
		}
	default:
		return fmt.Errorf("unknown latency regime %q", c.Latency)
	}

	return nil
}

// Format returns the fixed-point format.
func (c Config) Format() (*fixed.Format, error) {
	if c.Bits < 0 || c.FracBits < 0 {
		return nil, fmt.Errorf("fixed-point format: negative width Q%d.%d",
			c.Bits-c.FracBits, c.FracBits)
	}

	f, err := fixed.NewFormat(uint(c.Bits), uint(c.FracBits))
	if err != nil {
		return nil, fmt.Errorf("fixed-point format: %w", err)
	}

	return f, nil
}

// LatencyFactory returns a factory that creates a fresh latency function for
// every platform, so that frames rendered in parallel stay reproducible.
func (c Config) LatencyFactory() func() l3.LatencyFunc {
	if c.Latency == LatencyUniform {
		return func() l3.LatencyFunc {
			return l3.UniformLatency(c.LatencyMin, c.LatencyMax, c.Seed)
		}
	}

	return func() l3.LatencyFunc {
		return l3.FixedLatency(c.LatencyMin)
	}
}

// Builder returns an orchestrator builder configured from c. The volume is
// left to the caller.
func (c Config) Builder() (orchestrator.Builder, error) {
	if err := c.Validate(); err != nil {
		return orchestrator.Builder{}, err
	}

	f, err := c.Format()
	if err != nil {
		return orchestrator.Builder{}, err
	}

	return orchestrator.MakeBuilder().
		WithFormat(f).
		WithNumVTUs(c.NumVTUs).
		WithL1Size(c.L1Size).
		WithL2Slots(c.L2Slots).
		WithRadius(c.Radius).
		WithLatency(c.LatencyFactory()).
		WithMaxSteps(c.MaxSteps).
		WithConnLatency(sim.VTimeInCycle(c.ConnLatency)), nil
}
