// Package cache keeps the last successfully fetched portfolio in a single
// JSON file so it can be shown before the network answers.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/STTM-NSU/holdings/internal/logger"
	"github.com/STTM-NSU/holdings/internal/model"
	"github.com/bytedance/sonic"
)

const FileName = "portfolio_cache.json"

// Cache outcomes reported to a Recorder.
const (
	ResultHit        = "hit"
	ResultMiss       = "miss"
	ResultCorrupt    = "corrupt"
	ResultWritten    = "written"
	ResultWriteError = "write_error"
)

type Recorder interface {
	ObserveCache(result string)
}

type Option func(*Store)

func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		s.recorder = r
	}
}

// Store is a best-effort single-slot store. Neither Save nor Load ever
// return an error; failures are logged and degrade to "nothing cached".
type Store struct {
	path     string
	logger   logger.Logger
	recorder Recorder
}

// DefaultPath places the cache file inside dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, FileName)
}

func New(path string, logger logger.Logger, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Save(p model.Portfolio) {
	if err := s.write(p); err != nil {
		s.logger.Errorf("%s: can't save portfolio cache", err)
		s.observe(ResultWriteError)
		return
	}
	s.logger.Debugf("portfolio cache saved to %s", s.path)
	s.observe(ResultWritten)
}

func (s *Store) write(p model.Portfolio) error {
	data, err := sonic.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: can't marshal portfolio", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: can't create cache dir", err)
	}

	// write to a sibling file and rename so readers never see a torn file
	f, err := os.CreateTemp(dir, FileName+".*")
	if err != nil {
		return fmt.Errorf("%w: can't create temp file", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: can't write temp file", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: can't close temp file", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: can't replace cache file", err)
	}
	return nil
}

func (s *Store) Load() (model.Portfolio, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnf("%s: can't read portfolio cache", err)
		}
		s.observe(ResultMiss)
		return model.Portfolio{}, false
	}

	if len(data) == 0 {
		s.logger.Debugf("portfolio cache %s exists but is empty", s.path)
		s.observe(ResultMiss)
		return model.Portfolio{}, false
	}

	var p model.Portfolio
	if err := sonic.Unmarshal(data, &p); err != nil {
		s.logger.Warnf("%s: can't decode portfolio cache", err)
		s.observe(ResultCorrupt)
		return model.Portfolio{}, false
	}

	s.observe(ResultHit)
	return p, true
}

func (s *Store) observe(result string) {
	if s.recorder != nil {
		s.recorder.ObserveCache(result)
	}
}
