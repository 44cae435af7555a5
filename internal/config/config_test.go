package config

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsZeroThreadsWhenMiningEnabled(t *testing.T) {
	c := DefaultConfig()
	c.Mining.Enabled = true
	c.Mining.Threads = 0

	if err := c.Validate(); err != ErrInvalidThreadCount {
		t.Errorf("Validate() = %v, want ErrInvalidThreadCount", err)
	}
}

func TestValidateRejectsEmptyPoolListenAddr(t *testing.T) {
	c := DefaultConfig()
	c.Pool.Enabled = true
	c.Pool.ListenAddr = ""

	if err := c.Validate(); err != ErrMissingListenAddr {
		t.Errorf("Validate() = %v, want ErrMissingListenAddr", err)
	}
}

func TestGetDataPathJoinsSubdir(t *testing.T) {
	c := DefaultConfig()
	c.DataDir = "/tmp/cgminer"
	got := c.GetDataPath("shares")
	if got != "/tmp/cgminer/shares" {
		t.Errorf("GetDataPath(%q) = %q, want %q", "shares", got, "/tmp/cgminer/shares")
	}
}
