package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func sceneCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	preset, configFile = "", ""
	cmd := &cobra.Command{Use: "test"}
	addSceneFlags(cmd)
	addRenderFlags(cmd)
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return cmd
}

func TestLoadSceneDefault(t *testing.T) {
	cfg, name, err := loadScene(sceneCommand(t))
	if err != nil {
		t.Fatal(err)
	}
	if name != defaultScene || len(cfg.Sources) == 0 {
		t.Errorf("default scene = %s with %d sources", name, len(cfg.Sources))
	}
}

func TestLoadSceneOverrides(t *testing.T) {
	cfg, name, err := loadScene(sceneCommand(t, "--preset", "jet", "--n", "30", "--diffusion", "0", "--frames", "7", "--palette", "magma"))
	if err != nil {
		t.Fatal(err)
	}
	if name != "jet" {
		t.Errorf("name = %s", name)
	}
	if cfg.N != 30 || cfg.Diffusion != 0 || cfg.Frames != 7 || cfg.Render.Palette != "magma" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadSceneErrors(t *testing.T) {
	if _, _, err := loadScene(sceneCommand(t, "--preset", "tornado")); err == nil {
		t.Error("expected unknown preset error")
	}
	if _, _, err := loadScene(sceneCommand(t, "--dt", "-1")); err == nil {
		t.Error("expected invalid dt error")
	}
	if _, _, err := loadScene(sceneCommand(t, "--config", "does-not-exist.yaml")); err == nil {
		t.Error("expected missing config error")
	}
}

func TestParseAxis(t *testing.T) {
	name, vals, err := parseAxis("diffusion=0, 0.5,2")
	if err != nil {
		t.Fatal(err)
	}
	if name != "diffusion" || len(vals) != 3 || vals[1] != 0.5 || vals[2] != 2 {
		t.Errorf("parseAxis = %s %v", name, vals)
	}

	for _, bad := range []string{"diffusion", "=1,2", "dt=", "dt=a,b"} {
		if _, _, err := parseAxis(bad); err == nil {
			t.Errorf("parseAxis(%q) accepted", bad)
		}
	}
}
