package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kurozz/matrix-control/internal/domain/matrix"
	"github.com/kurozz/matrix-control/internal/gpio"
)

const (
	// DefaultConfigFilename is the default filename for matrix settings.
	DefaultConfigFilename = "config.yaml"

	// DefaultMonitorInterval is the fallback between continuous scans.
	DefaultMonitorInterval = 0.5

	// DefaultSettleTimeMS is the fallback settle delay after selecting a
	// column, long enough for the electrical transient to resolve.
	DefaultSettleTimeMS = 1.0

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// MinMonitorInterval and MaxMonitorInterval bound the continuous scan
	// interval in seconds.
	MinMonitorInterval = 0.1
	MaxMonitorInterval = 60.0
)

// ErrInvalid is matched by every configuration failure: missing file,
// malformed YAML or a rejected field value.
var ErrInvalid = errors.New("invalid configuration")

// Config describes one physical installation: the output matrix driven by
// matrix-write and the input matrix sampled by matrix-read.
type Config struct {
	// Driver selects the GPIO backend ("gpiocdev" or "rpio").
	// Empty selects the character device backend.
	Driver string `yaml:"driver,omitempty"`
	// Output configures the output (relay/LED) matrix.
	Output OutputConfig `yaml:"output"`
	// Input configures the input (reed switch/keypad) matrix.
	Input InputConfig `yaml:"input"`
}

// OutputConfig holds the output matrix pin map and activation policy.
type OutputConfig struct {
	// Pinout maps matrix rows and columns to GPIO pins.
	Pinout PinMap `yaml:"pinout"`
	// ForceOffOnConflict allows a new activation to pre-empt the active
	// position instead of failing.
	ForceOffOnConflict bool `yaml:"force_off_on_conflict"`
	// SafetyTimeoutSeconds is a global ceiling on activation time,
	// independent of the per-call duration. Zero disables it.
	SafetyTimeoutSeconds float64 `yaml:"safety_timeout,omitempty"`
}

// PinMap maps output matrix lines to GPIO pins.
type PinMap struct {
	// Rows lists the row pins, one per matrix row.
	Rows []int `yaml:"rows"`
	// Cols lists the column pins, one per matrix column.
	Cols []int `yaml:"cols"`
	// ActiveLevel is "HIGH" or "LOW": the level meaning energized.
	ActiveLevel string `yaml:"active_level"`

	// Active is the parsed ActiveLevel, populated by Validate.
	Active gpio.Level `yaml:"-"`
}

// InputConfig holds the input matrix wiring and monitor defaults.
type InputConfig struct {
	// Matrix describes the input matrix wiring.
	Matrix InputMatrix `yaml:"input_matrix"`
	// MonitorIntervalSeconds is the default delay between continuous scans.
	MonitorIntervalSeconds float64 `yaml:"monitor_interval,omitempty"`
}

// InputMatrix describes the input matrix wiring and polarity.
type InputMatrix struct {
	// Rows lists the row (sense) pins.
	Rows []int `yaml:"rows"`
	// Cols lists the column (select) pins.
	Cols []int `yaml:"cols"`
	// PullMode is "UP" or "DOWN": the pull resistor on the row pins.
	PullMode string `yaml:"pull_mode"`
	// ClosedState is "HIGH" or "LOW": the row level observed when a switch
	// is closed while its column is selected.
	ClosedState string `yaml:"closed_state"`
	// SettleTimeMS is the delay after selecting a column before rows are
	// sampled, in milliseconds.
	SettleTimeMS float64 `yaml:"settle_time_ms,omitempty"`

	// Pull is the parsed PullMode, populated by Validate.
	Pull gpio.Pull `yaml:"-"`
	// Closed is the parsed ClosedState, populated by Validate.
	Closed gpio.Level `yaml:"-"`
}

// Load reads configuration from the provided path and validates all fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalid, path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal %s: %w", ErrInvalid, path, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: configuration is not set", ErrInvalid)
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks field values, resolves polarity strings into levels and
// applies defaults. Geometry is implied by the pin list lengths.
func Validate(cfg *Config) error {
	if cfg.Driver != "" && cfg.Driver != gpio.BackendGpiocdev && cfg.Driver != gpio.BackendRPIO {
		return fmt.Errorf("%w: unknown driver %q", ErrInvalid, cfg.Driver)
	}

	if err := validatePins("output.pinout", cfg.Output.Pinout.Rows, cfg.Output.Pinout.Cols); err != nil {
		return err
	}

	active, err := gpio.ParseLevel(cfg.Output.Pinout.ActiveLevel)
	if err != nil {
		return fmt.Errorf("%w: output.pinout.active_level: %w", ErrInvalid, err)
	}

	cfg.Output.Pinout.Active = active

	if cfg.Output.SafetyTimeoutSeconds < 0 {
		return fmt.Errorf("%w: output.safety_timeout must not be negative", ErrInvalid)
	}

	if err := validatePins("input.input_matrix", cfg.Input.Matrix.Rows, cfg.Input.Matrix.Cols); err != nil {
		return err
	}

	pull, err := gpio.ParsePull(cfg.Input.Matrix.PullMode)
	if err != nil {
		return fmt.Errorf("%w: input.input_matrix.pull_mode: %w", ErrInvalid, err)
	}

	cfg.Input.Matrix.Pull = pull

	closed, err := gpio.ParseLevel(cfg.Input.Matrix.ClosedState)
	if err != nil {
		return fmt.Errorf("%w: input.input_matrix.closed_state: %w", ErrInvalid, err)
	}

	cfg.Input.Matrix.Closed = closed

	if cfg.Input.Matrix.SettleTimeMS < 0 {
		return fmt.Errorf("%w: input.input_matrix.settle_time_ms must not be negative", ErrInvalid)
	}

	if cfg.Input.Matrix.SettleTimeMS == 0 {
		cfg.Input.Matrix.SettleTimeMS = DefaultSettleTimeMS
	}

	if cfg.Input.MonitorIntervalSeconds == 0 {
		cfg.Input.MonitorIntervalSeconds = DefaultMonitorInterval
	}

	if cfg.Input.MonitorIntervalSeconds < MinMonitorInterval || cfg.Input.MonitorIntervalSeconds > MaxMonitorInterval {
		return fmt.Errorf("%w: input.monitor_interval must be between %gs and %gs",
			ErrInvalid, MinMonitorInterval, MaxMonitorInterval)
	}

	return nil
}

// validatePins rejects empty or overlapping pin lists for one matrix.
func validatePins(section string, rows, cols []int) error {
	if len(rows) == 0 || len(cols) == 0 {
		return fmt.Errorf("%w: %s.rows and %s.cols must not be empty", ErrInvalid, section, section)
	}

	seen := make(map[int]struct{}, len(rows)+len(cols))

	for _, pin := range append(append([]int{}, rows...), cols...) {
		if pin < 0 {
			return fmt.Errorf("%w: %s: pin %d is negative", ErrInvalid, section, pin)
		}

		if _, dup := seen[pin]; dup {
			return fmt.Errorf("%w: %s: pin %d appears twice", ErrInvalid, section, pin)
		}

		seen[pin] = struct{}{}
	}

	return nil
}

// Geometry returns the output matrix dimensions.
func (o OutputConfig) Geometry() matrix.Geometry {
	return matrix.Geometry{Rows: len(o.Pinout.Rows), Cols: len(o.Pinout.Cols)}
}

// SafetyTimeout returns the safety ceiling as a duration, zero when disabled.
func (o OutputConfig) SafetyTimeout() time.Duration {
	return time.Duration(o.SafetyTimeoutSeconds * float64(time.Second))
}

// Geometry returns the input matrix dimensions.
func (i InputConfig) Geometry() matrix.Geometry {
	return matrix.Geometry{Rows: len(i.Matrix.Rows), Cols: len(i.Matrix.Cols)}
}

// MonitorInterval returns the default continuous scan interval.
func (i InputConfig) MonitorInterval() time.Duration {
	return time.Duration(i.MonitorIntervalSeconds * float64(time.Second))
}

// SettleTime returns the per-column settle delay.
func (m InputMatrix) SettleTime() time.Duration {
	return time.Duration(m.SettleTimeMS * float64(time.Millisecond))
}
