package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// GamePaths locates the external launchers the client drives. Defaults match
// the standard install layout; data/paths.json overrides individual entries.
type GamePaths struct {
	RageMPDir      string `json:"ragemp_dir"`
	RageMPUpdater  string `json:"ragemp_updater"`
	RageMPLauncher string `json:"ragemp_launcher"`

	GTADir string `json:"gta_dir"`
	GTAExe string `json:"gta_exe"`

	RockstarLauncher string `json:"rockstar_launcher"`
}

func DefaultGamePaths() GamePaths {
	return GamePaths{
		RageMPDir:      `C:\Games\GTA5RP\RageMP`,
		RageMPUpdater:  `C:\Games\GTA5RP\RageMP\updater.exe`,
		RageMPLauncher: `C:\Games\GTA5RP\RageMP\ragemp_v.exe`,

		GTADir: `C:\Games\GTA5RP\Grand Theft Auto V`,
		GTAExe: `C:\Games\GTA5RP\Grand Theft Auto V\PlayGTAV.exe`,

		RockstarLauncher: `C:\Program Files\Rockstar Games\Launcher\LauncherPatcher.exe`,
	}
}

// LoadGamePaths returns the defaults merged with data/paths.json when the
// override file exists. Empty fields in the override keep their defaults.
func LoadGamePaths(dataDir string) (GamePaths, error) {
	paths := DefaultGamePaths()

	file := filepath.Join(dataDir, pathsFileName)
	data, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		return paths, nil
	}
	if err != nil {
		return paths, fmt.Errorf("read %s: %w", file, err)
	}

	var override GamePaths
	if err := json.Unmarshal(data, &override); err != nil {
		return paths, fmt.Errorf("parse %s: %w", file, err)
	}
	paths.merge(override)
	return paths, nil
}

func (p *GamePaths) merge(o GamePaths) {
	if o.RageMPDir != "" {
		p.RageMPDir = o.RageMPDir
	}
	if o.RageMPUpdater != "" {
		p.RageMPUpdater = o.RageMPUpdater
	}
	if o.RageMPLauncher != "" {
		p.RageMPLauncher = o.RageMPLauncher
	}
	if o.GTADir != "" {
		p.GTADir = o.GTADir
	}
	if o.GTAExe != "" {
		p.GTAExe = o.GTAExe
	}
	if o.RockstarLauncher != "" {
		p.RockstarLauncher = o.RockstarLauncher
	}
}
