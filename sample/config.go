package sample

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type (
	// Config lists the loop recordings of the two engine voices.
	Config struct {
		Throttle VoiceConfig `yaml:"throttle" json:"throttle"`
		Release  VoiceConfig `yaml:"release" json:"release"`
	}

	// VoiceConfig describes the loops of one voice. Loops can be listed one
	// by one in Loops, or as a list of RPMs and a file Pattern in which
	// "{rpm}" is replaced with each RPM; both lists are combined.
	VoiceConfig struct {
		BaseRPM   float64      `yaml:"baseRpm" json:"baseRpm"`
		Smoothing float64      `yaml:"smoothing" json:"smoothing"`
		Attack    float64      `yaml:"attack" json:"attack"` // default attack time of the loops
		Pattern   string       `yaml:"pattern,omitempty" json:"pattern,omitempty"`
		RPMs      []float64    `yaml:"rpms,flow,omitempty" json:"rpms,omitempty"`
		Loops     []LoopConfig `yaml:"loops,omitempty" json:"loops,omitempty"`
	}

	LoopConfig struct {
		RPM    float64  `yaml:"rpm" json:"rpm"`
		File   string   `yaml:"file" json:"file"`
		Attack *float64 `yaml:"attack,omitempty" json:"attack,omitempty"` // overrides VoiceConfig.Attack
	}
)

//go:embed canyoncar.yml
var defaultConfig []byte

// DefaultConfig returns the built-in loop set of the canyon car.
func DefaultConfig() Config {
	c, err := ParseConfig(defaultConfig)
	if err != nil {
		panic(fmt.Sprintf("built-in config is broken: %v", err))
	}
	return c
}

// ParseConfig parses a config given as JSON or YAML.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	if errJSON := json.Unmarshal(data, &c); errJSON != nil {
		c = Config{}
		if errYaml := yaml.Unmarshal(data, &c); errYaml != nil {
			return Config{}, fmt.Errorf("the config could not be parsed as .json (%v) or .yml (%v)", errJSON, errYaml)
		}
	}
	return c, nil
}

// Entries expands the voice config into the full list of loops.
func (v *VoiceConfig) Entries() []LoopConfig {
	ret := make([]LoopConfig, 0, len(v.RPMs)+len(v.Loops))
	for _, rpm := range v.RPMs {
		file := strings.ReplaceAll(v.Pattern, "{rpm}", strconv.FormatFloat(rpm, 'f', -1, 64))
		ret = append(ret, LoopConfig{RPM: rpm, File: file})
	}
	ret = append(ret, v.Loops...)
	for i := range ret {
		if ret[i].Attack == nil {
			a := v.Attack
			ret[i].Attack = &a
		}
	}
	return ret
}
