package pact

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type UnpackOptions struct {
	NumBoards       int      `yaml:"NumBoards"`
	BoardName       []string `yaml:"BoardName"`
	TotFirings      int      `yaml:"TotFirings"`
	NumDaqChnsBoard int      `yaml:"NumDaqChnsBoard"`
	DataBlockSize   int      `yaml:"DataBlockSize"`
	PackSize        int      `yaml:"PackSize"`
	NumElements     int      `yaml:"NumElements"`
	BadChannels     []int    `yaml:"BadChannels"`
}

type LoadOptions struct {
	ExpStart int `yaml:"EXP_START"`
	ExpEnd   int `yaml:"EXP_END"`
}

type ExtraOptions struct {
	SrcDir  string `yaml:"src_dir"`
	DestDir string `yaml:"dest_dir"`
}

type ReconOptions struct {
	IndexTable string `yaml:"index_table"`
	SavePlot   bool   `yaml:"save_plot"`
}

type Configuration struct {
	Unpack           UnpackOptions `yaml:"unpack"`
	Load             LoadOptions   `yaml:"load"`
	Extra            ExtraOptions  `yaml:"extra"`
	Recon            ReconOptions  `yaml:"recon"`
	Verbosity        int           `yaml:"verbosity"`
	NumWorkers       int           `yaml:"num_workers"`
	NoDB             bool          `yaml:"no_db"`
	DBDriver         string        `yaml:"db_driver"`
	Host             string        `yaml:"host"`
	User             string        `yaml:"user"`
	Passwd           string        `yaml:"pass"`
	DBName           string        `yaml:"dbname"`
	CompressionLevel int           `yaml:"compression_level"`
}

// DemuxParams returns the kernel sizing for a dataset of numExperiments.
func (c Configuration) DemuxParams(numExperiments int) DemuxParams {
	return DemuxParams{
		NumExperiments:  numExperiments,
		TotFirings:      c.Unpack.TotFirings,
		NumDaqChnsBoard: c.Unpack.NumDaqChnsBoard,
		DataBlockSize:   c.Unpack.DataBlockSize,
		NumElements:     c.Unpack.NumElements,
	}
}

var configuration = DefaultConfiguration()

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}

func DefaultConfiguration() Configuration {
	var config Configuration

	config.Unpack.NumBoards = NumBoards
	config.Unpack.BoardName = []string{"Board2004", "Board9054"}
	config.Unpack.TotFirings = 8
	config.Unpack.NumDaqChnsBoard = ChannelsPerFiring
	config.Unpack.DataBlockSize = 1300
	config.Unpack.PackSize = 2600
	config.Unpack.NumElements = 512
	config.Load.ExpStart = -1
	config.Load.ExpEnd = -1
	config.Extra.SrcDir = "."
	config.Extra.DestDir = "unpack"
	config.Recon.IndexTable = "index_table.h5"
	config.Recon.SavePlot = false
	config.Verbosity = 0
	config.NumWorkers = 1
	config.NoDB = true
	config.DBDriver = "mysql"
	config.Host = "localhost"
	config.User = "pactreader"
	config.Passwd = "readonly"
	config.DBName = "PACT"
	config.CompressionLevel = 4
	return config
}

// LoadConfiguration reads a YAML options file over the defaults. On error
// the defaults are returned alongside it.
func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return DefaultConfiguration(), err
	}
	return config, nil
}

func PrintConfiguration(config Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("Boards: %v", config.Unpack.BoardName), "config")
	logger.Info(fmt.Sprintf("Total firings: %d", config.Unpack.TotFirings), "config")
	logger.Info(fmt.Sprintf("DAQ channels per board: %d", config.Unpack.NumDaqChnsBoard), "config")
	logger.Info(fmt.Sprintf("Data block size: %d", config.Unpack.DataBlockSize), "config")
	logger.Info(fmt.Sprintf("Pack size: %d", config.Unpack.PackSize), "config")
	logger.Info(fmt.Sprintf("Number of elements: %d", config.Unpack.NumElements), "config")
	logger.Info(fmt.Sprintf("Bad channels: %v", config.Unpack.BadChannels), "config")
	logger.Info(fmt.Sprintf("Experiment range: %d to %d", config.Load.ExpStart, config.Load.ExpEnd), "config")
	logger.Info(fmt.Sprintf("Source dir: %s", config.Extra.SrcDir), "config")
	logger.Info(fmt.Sprintf("Destination dir: %s", config.Extra.DestDir), "config")
	logger.Info(fmt.Sprintf("Index table: %s", config.Recon.IndexTable), "config")
	logger.Info(fmt.Sprintf("Save plot: %t", config.Recon.SavePlot), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("DB driver: %s", config.DBDriver), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
}
