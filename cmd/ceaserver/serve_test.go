package main

import "testing"

func TestServeCmd_HasHostAndPortFlags(t *testing.T) {
	if serveCmd.Flags().Lookup("host") == nil {
		t.Error("expected serve command to have a host flag")
	}
	if serveCmd.Flags().Lookup("port") == nil {
		t.Error("expected serve command to have a port flag")
	}
}

func TestRunServe_FailsWithoutDataDir(t *testing.T) {
	t.Setenv("CEA_DATA_DIR", "")
	configPath = ""
	serveHost = ""
	servePort = 0

	if err := runServe(serveCmd, nil); err == nil {
		t.Error("expected runServe to fail when no data directory is configured")
	}
}
