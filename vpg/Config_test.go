package vpg_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lucasgandara/govpg/vpg"
)

func TestNewConfigIsValid(t *testing.T) {
	config := vpg.NewConfig()
	if err := config.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		adjust func(*vpg.Config)
		valid  bool
	}{
		{"zero epochs", func(c *vpg.Config) { c.Epochs = 0 }, false},
		{"negative learning rate",
			func(c *vpg.Config) { c.LearningRate = -0.1 }, false},
		{"zero learning rate",
			func(c *vpg.Config) { c.LearningRate = 0 }, false},
		{"zero hidden units",
			func(c *vpg.Config) { c.HiddenLayerUnits = 0 }, false},
		{"unknown expression",
			func(c *vpg.Config) { c.AdvantageExpression = "bogus" }, false},
		{"zero gamma", func(c *vpg.Config) { c.Gamma = 0 }, false},
		{"gamma above one", func(c *vpg.Config) { c.Gamma = 1.01 }, false},
		{"gamma of one", func(c *vpg.Config) { c.Gamma = 1.0 }, true},
		{"disabled step limit",
			func(c *vpg.Config) { c.StepLimit = 0 }, true},
		{"baselined expression", func(c *vpg.Config) {
			c.AdvantageExpression = vpg.RewardToGoBaselined
		}, true},
	}

	for _, test := range tests {
		config := vpg.NewConfig()
		test.adjust(&config)

		err := config.Validate()
		if test.valid && err != nil {
			t.Errorf("%v: config should be valid: %v", test.name, err)
		}
		if !test.valid && !errors.Is(err, vpg.ErrInvalidArgument) {
			t.Errorf("%v: expected an invalid argument error, got %v",
				test.name, err)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	data := []byte(`{
	"Epochs": 25,
	"LearningRate": 0.01,
	"HiddenLayerUnits": 32,
	"AdvantageExpression": "reward_to_go_baselined",
	"Gamma": 0.95,
	"StepLimit": 1000
}`)

	filename := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(filename, data, 0644); err != nil {
		t.Fatal(err)
	}

	config, err := vpg.LoadConfig(filename)
	if err != nil {
		t.Fatal(err)
	}

	if config.Epochs != 25 {
		t.Errorf("got %v epochs, want 25", config.Epochs)
	}
	if config.LearningRate != 0.01 {
		t.Errorf("got learning rate %v, want 0.01", config.LearningRate)
	}
	if config.AdvantageExpression != vpg.RewardToGoBaselined {
		t.Errorf("got expression %v, want %v", config.AdvantageExpression,
			vpg.RewardToGoBaselined)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	data := []byte(`{"Epochs": 10}`)

	filename := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(filename, data, 0644); err != nil {
		t.Fatal(err)
	}

	config, err := vpg.LoadConfig(filename)
	if err != nil {
		t.Fatal(err)
	}

	if config.Epochs != 10 {
		t.Errorf("got %v epochs, want 10", config.Epochs)
	}
	if config.Gamma != vpg.DefaultGamma {
		t.Errorf("got gamma %v, want the default %v", config.Gamma,
			vpg.DefaultGamma)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	data := []byte(`{"Epochs": -3}`)

	filename := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(filename, data, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := vpg.LoadConfig(filename)
	if !errors.Is(err, vpg.ErrInvalidArgument) {
		t.Errorf("expected an invalid argument error, got %v", err)
	}
}
