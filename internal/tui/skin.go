package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Skin is a named palette. Empty fields keep the current color.
type Skin struct {
	Navy   string `yaml:"navy"`
	Blue   string `yaml:"blue"`
	Accent string `yaml:"accent"`
	Green  string `yaml:"green"`
	Red    string `yaml:"red"`
	Yellow string `yaml:"yellow"`
	Gray   string `yaml:"gray"`
	White  string `yaml:"white"`
}

var builtinSkins = map[string]Skin{
	"default": {
		Navy: "#1B2A41", Blue: "#4C9AFF", Accent: "#FFB454", Green: "#3DDC84",
		Red: "#FF5F5F", Yellow: "#F5D76E", Gray: "#7A8699", White: "#F4F6FA",
	},
	"light": {
		Navy: "#E8EEF7", Blue: "#1F5FBF", Accent: "#B35C00", Green: "#137333",
		Red: "#C5221F", Yellow: "#8A6D00", Gray: "#5F6B7A", White: "#1B2A41",
	},
	"mono": {
		Navy: "0", Blue: "15", Accent: "15", Green: "250",
		Red: "250", Yellow: "250", Gray: "244", White: "255",
	},
}

// InitializeSkin applies the named skin. Built-in names win; otherwise the
// skin is read from <configDir>/skins/<name>.yml.
func InitializeSkin(name, configDir string) error {
	if name == "" {
		name = "default"
	}
	if s, ok := builtinSkins[name]; ok {
		applySkin(s)
		return nil
	}
	if configDir == "" {
		return fmt.Errorf("unknown skin %q", name)
	}

	data, err := os.ReadFile(filepath.Join(configDir, "skins", name+".yml"))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unknown skin %q", name)
	}
	if err != nil {
		return err
	}
	var s Skin
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing skin %q: %w", name, err)
	}
	applySkin(builtinSkins["default"])
	applySkin(s)
	return nil
}

func applySkin(s Skin) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&ColorNavy, s.Navy)
	set(&ColorBlue, s.Blue)
	set(&ColorAccent, s.Accent)
	set(&ColorGreen, s.Green)
	set(&ColorRed, s.Red)
	set(&ColorYellow, s.Yellow)
	set(&ColorGray, s.Gray)
	set(&ColorWhite, s.White)
	buildStyles()
}
