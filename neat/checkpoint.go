package neat

import (
	"compress/gzip"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/synapticgo/neat/network"
)

// checkpointData is the gzip+gob envelope around a checkpoint. The
// population itself travels as JSON (the same to_json shape Export/Import
// use) rather than raw gob of *network.Network, since the node/connection
// graph is a pointer structure gob cannot round-trip reliably; only the
// envelope (config, generation, flattened genomes) is gob-encoded.
type checkpointData struct {
	Config     EngineConfig
	Generation int
	Population []json.RawMessage
}

// SaveCheckpoint saves the engine's current state to filePath, gzip+gob
// encoded.
func (ne *Neat) SaveCheckpoint(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("neat: failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	defer gzWriter.Close()

	docs := make([]json.RawMessage, len(ne.Population))
	for i, g := range ne.Population {
		doc, err := g.ToJSON()
		if err != nil {
			return fmt.Errorf("neat: failed to serialize genome %d: %w", i, err)
		}
		docs[i] = doc
	}

	data := checkpointData{Config: ne.Config, Generation: ne.Generation, Population: docs}
	if err := gob.NewEncoder(gzWriter).Encode(data); err != nil {
		return fmt.Errorf("neat: failed to encode checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint restores an engine from a file saved by SaveCheckpoint.
// fitness must be supplied again since function values cannot be
// persisted.
func LoadCheckpoint(filePath string, fitness FitnessFunc) (*Neat, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("neat: failed to open checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("neat: failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	var data checkpointData
	if err := gob.NewDecoder(gzReader).Decode(&data); err != nil {
		return nil, fmt.Errorf("neat: failed to decode checkpoint: %w", err)
	}

	pop := make([]*network.Network, 0, len(data.Population))
	var input, output int
	for _, doc := range data.Population {
		g, err := network.FromJSON(doc)
		if err != nil {
			return nil, fmt.Errorf("neat: failed to deserialize genome from checkpoint: %w", err)
		}
		input, output = g.InputSize, g.OutputSize
		pop = append(pop, g)
	}

	seed := data.Config.Seed
	if seed == 0 {
		seed = 1
	}
	ne := &Neat{
		Config:     data.Config,
		Input:      input,
		Output:     output,
		Fitness:    fitness,
		Population: pop,
		Generation: data.Generation,
	}
	ne.rng = rand.New(rand.NewSource(seed))
	if ne.Config.Speciation.Enabled {
		ne.species = &speciesSet{}
	}
	return ne, nil
}
