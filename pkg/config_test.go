package pact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigurationOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "options.yaml", `
unpack:
  TotFirings: 4
  DataBlockSize: 1000
  BadChannels: [3, 17]
load:
  EXP_START: 5
  EXP_END: 9
extra:
  dest_dir: /data/out
recon:
  save_plot: true
verbosity: 2
num_workers: 4
no_db: false
db_driver: sqlite
`)

	config, err := LoadConfiguration(path)
	require.NoError(t, err)
	assert.Equal(t, 4, config.Unpack.TotFirings)
	assert.Equal(t, 1000, config.Unpack.DataBlockSize)
	assert.Equal(t, []int{3, 17}, config.Unpack.BadChannels)
	assert.Equal(t, 5, config.Load.ExpStart)
	assert.Equal(t, 9, config.Load.ExpEnd)
	assert.Equal(t, "/data/out", config.Extra.DestDir)
	assert.True(t, config.Recon.SavePlot)
	assert.Equal(t, 2, config.Verbosity)
	assert.Equal(t, 4, config.NumWorkers)
	assert.False(t, config.NoDB)
	assert.Equal(t, "sqlite", config.DBDriver)

	// untouched keys keep their defaults
	defaults := DefaultConfiguration()
	assert.Equal(t, defaults.Unpack.BoardName, config.Unpack.BoardName)
	assert.Equal(t, defaults.Unpack.PackSize, config.Unpack.PackSize)
	assert.Equal(t, defaults.Extra.SrcDir, config.Extra.SrcDir)
	assert.Equal(t, defaults.CompressionLevel, config.CompressionLevel)
}

func TestLoadConfigurationErrors(t *testing.T) {
	config, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Equal(t, DefaultConfiguration(), config)

	path := writeFile(t, t.TempDir(), "broken.yaml", "unpack: [1, 2\n")
	config, err = LoadConfiguration(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfiguration(), config)
}

func TestConfigurationDemuxParams(t *testing.T) {
	p := DefaultConfiguration().DemuxParams(3)
	assert.Equal(t, DemuxParams{
		NumExperiments:  3,
		TotFirings:      8,
		NumDaqChnsBoard: 32,
		DataBlockSize:   1300,
		NumElements:     512,
	}, p)
	assert.Equal(t, p.ChannelMapSize(), p.NumElements)
}

func TestSetConfiguration(t *testing.T) {
	saved := GetConfiguration()
	t.Cleanup(func() { SetConfiguration(saved) })

	config := DefaultConfiguration()
	config.Verbosity = 3
	SetConfiguration(config)
	assert.Equal(t, 3, GetConfiguration().Verbosity)
}

type recordingLogger struct {
	infos  []string
	errors []string
}

func (r *recordingLogger) Info(message string, module string) {
	r.infos = append(r.infos, module+": "+message)
}

func (r *recordingLogger) Error(message string) {
	r.errors = append(r.errors, message)
}

func TestPrintConfiguration(t *testing.T) {
	rec := &recordingLogger{}
	PrintConfiguration(DefaultConfiguration(), rec)
	assert.Contains(t, rec.infos, "config: Data block size: 1300")
	assert.Contains(t, rec.infos, "config: Boards: [Board2004 Board9054]")
	assert.Empty(t, rec.errors)
}
