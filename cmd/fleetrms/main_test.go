package main

import (
	"testing"
)

func TestGetConfigPath(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("FLEETRMS_CONFIG", "")
		if got := getConfigPath(); got != "configs/config.yaml" {
			t.Errorf("getConfigPath() = %q, want default", got)
		}
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("FLEETRMS_CONFIG", "/etc/fleetrms/config.yaml")
		if got := getConfigPath(); got != "/etc/fleetrms/config.yaml" {
			t.Errorf("getConfigPath() = %q, want env value", got)
		}
	})
}
