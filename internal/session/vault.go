package session

import (
	"encoding/json"
	"os"
	"sync"
)

// Vault is the key-value persistence collaborator tokens are handed to on
// login and read back from at bootstrap.
type Vault interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// FileVault persists values as a single JSON file on disk.
type FileVault struct {
	path   string
	mu     sync.Mutex
	values map[string]string
}

// OpenFileVault loads the vault file at path, creating an empty vault when
// the file does not exist yet.
func OpenFileVault(path string) (*FileVault, error) {
	v := &FileVault{path: path, values: make(map[string]string)}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return v, nil
		}
		return nil, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&v.values); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *FileVault) Get(key string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	val, ok := v.values[key]
	return val, ok
}

func (v *FileVault) Set(key, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[key] = value
	return v.save()
}

func (v *FileVault) Remove(key string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.values, key)
	return v.save()
}

// save writes the whole map back to disk. Caller holds the lock.
func (v *FileVault) save() error {
	f, err := os.Create(v.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(v.values)
}

// MemoryVault is an in-process Vault for tests and ephemeral sessions.
type MemoryVault struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryVault() *MemoryVault {
	return &MemoryVault{values: make(map[string]string)}
}

func (v *MemoryVault) Get(key string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	val, ok := v.values[key]
	return val, ok
}

func (v *MemoryVault) Set(key, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[key] = value
	return nil
}

func (v *MemoryVault) Remove(key string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.values, key)
	return nil
}
