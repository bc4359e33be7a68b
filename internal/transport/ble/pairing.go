package ble

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// PairingCache remembers the last peripheral address that answered to the
// configured device name, so a reconnect after a restart can dial it
// directly instead of repeating a full scan.
type PairingCache struct {
	Address string `toml:"address"`
	Name    string `toml:"name"`
	MTU     int    `toml:"mtu"`
}

// LoadPairingCache reads the cache file, returning a zero-value cache
// (never an error) if it doesn't exist yet.
func LoadPairingCache(path string) PairingCache {
	var cache PairingCache
	if _, err := toml.DecodeFile(path, &cache); err != nil {
		return PairingCache{}
	}
	return cache
}

// SavePairingCache writes the cache file, overwriting any previous entry.
func SavePairingCache(path string, cache PairingCache) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating pairing cache: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cache); err != nil {
		return fmt.Errorf("encoding pairing cache: %w", err)
	}
	return nil
}
