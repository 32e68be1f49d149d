package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateTranscode(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	switch c.Analysis.SampleRate {
	case 16000, 22050:
	default:
		return fmt.Errorf("analysis.sample_rate must be 16000 or 22050, got %d", c.Analysis.SampleRate)
	}
	switch c.Analysis.CepstralCoefficients {
	case 5, 13:
	default:
		return fmt.Errorf("analysis.cepstral_coefficients must be 5 or 13, got %d", c.Analysis.CepstralCoefficients)
	}
	switch c.Analysis.PitchMethod {
	case PitchMethodCentroid, PitchMethodPiptrack:
	default:
		return fmt.Errorf("analysis.pitch_method must be %q or %q, got %q", PitchMethodCentroid, PitchMethodPiptrack, c.Analysis.PitchMethod)
	}
	if c.Analysis.MaxDurationSeconds < 0 {
		return errors.New("analysis.max_duration_seconds must be >= 0 (0 disables truncation)")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.TimeoutSeconds <= 0 {
		return errors.New("fetch.timeout_seconds must be positive")
	}
	if c.Fetch.MaxBodyMiB < 0 {
		return errors.New("fetch.max_body_mib must be >= 0 (0 disables the size cap)")
	}
	return nil
}

func (c *Config) validateTranscode() error {
	if c.Transcode.FFmpegBinary == "" {
		return errors.New("transcode.ffmpeg_binary must be set")
	}
	if c.Transcode.TimeoutSeconds <= 0 {
		return errors.New("transcode.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.Bind == "" {
		return errors.New("api.bind must be set")
	}
	return nil
}
