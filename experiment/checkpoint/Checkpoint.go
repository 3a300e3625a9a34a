// Package checkpoint saves and restores training runs. A checkpoint
// is a timestamped directory holding the policy weights, the training
// configuration, and auxiliary per-epoch data such as rewards and
// losses.
package checkpoint

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/lucasgandara/govpg/network"
	"github.com/lucasgandara/govpg/vpg"
)

const (
	weightsFile = "weights.bin"
	configFile  = "config.json"
)

// WeightTensor is the serializable form of one learnable weight of a
// neural network, identified by its node name
type WeightTensor struct {
	Name  string
	Shape []int
	Data  []float64
}

// Checkpoint holds everything needed to restore a training run
type Checkpoint struct {
	Name    string
	Config  vpg.Config
	Weights []WeightTensor

	// Per-epoch training history
	Rewards    []float64
	Losses     []float64
	Advantages []float64
}

// New creates a Checkpoint from a training configuration and the
// network whose weights should be saved
func New(name string, config vpg.Config, net network.NeuralNet,
	rewards, losses, advantages []float64) (*Checkpoint, error) {
	weights, err := extractWeights(net)
	if err != nil {
		return nil, fmt.Errorf("new: could not extract weights: %v", err)
	}

	return &Checkpoint{
		Name:       name,
		Config:     config,
		Weights:    weights,
		Rewards:    rewards,
		Losses:     losses,
		Advantages: advantages,
	}, nil
}

// extractWeights copies the learnable weights of a network into
// serializable form
func extractWeights(net network.NeuralNet) ([]WeightTensor, error) {
	learnables := net.Learnables()
	weights := make([]WeightTensor, 0, len(learnables))

	for _, node := range learnables {
		value := node.Value()
		if value == nil {
			return nil, fmt.Errorf("extractweights: node %v has no value",
				node.Name())
		}

		t, ok := value.(tensor.Tensor)
		if !ok {
			return nil, fmt.Errorf("extractweights: node %v is not backed "+
				"by a tensor", node.Name())
		}

		data, ok := t.Data().([]float64)
		if !ok {
			return nil, fmt.Errorf("extractweights: node %v does not hold "+
				"float64 data", node.Name())
		}

		shape := t.Shape()
		weights = append(weights, WeightTensor{
			Name:  node.Name(),
			Shape: append([]int{}, shape...),
			Data:  append([]float64{}, data...),
		})
	}

	return weights, nil
}

// Save writes the Checkpoint to a new timestamped directory under dir
// and returns the path of the created directory
func (c *Checkpoint) Save(dir string) (string, error) {
	stamp := time.Now().Format("2006-01-02_15-04-05")
	runDir := filepath.Join(dir, fmt.Sprintf("exp_%v_%v", c.Name, stamp))

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("save: could not create run directory: %v", err)
	}

	configData, err := json.MarshalIndent(c.Config, "", "\t")
	if err != nil {
		return "", fmt.Errorf("save: could not marshal config: %v", err)
	}
	err = os.WriteFile(filepath.Join(runDir, configFile), configData, 0644)
	if err != nil {
		return "", fmt.Errorf("save: could not write config: %v", err)
	}

	file, err := os.Create(filepath.Join(runDir, weightsFile))
	if err != nil {
		return "", fmt.Errorf("save: could not create weights file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err := en.Encode(savedRun{
		Weights:    c.Weights,
		Rewards:    c.Rewards,
		Losses:     c.Losses,
		Advantages: c.Advantages,
	}); err != nil {
		return "", fmt.Errorf("save: could not encode weights: %v", err)
	}

	return runDir, nil
}

// savedRun is the gob layout of the binary part of a checkpoint
type savedRun struct {
	Weights    []WeightTensor
	Rewards    []float64
	Losses     []float64
	Advantages []float64
}

// Load reads a Checkpoint back from a run directory created by Save
func Load(runDir string) (*Checkpoint, error) {
	configData, err := os.ReadFile(filepath.Join(runDir, configFile))
	if err != nil {
		return nil, fmt.Errorf("load: could not read config: %v", err)
	}

	var config vpg.Config
	if err := json.Unmarshal(configData, &config); err != nil {
		return nil, fmt.Errorf("load: could not unmarshal config: %v", err)
	}

	file, err := os.Open(filepath.Join(runDir, weightsFile))
	if err != nil {
		return nil, fmt.Errorf("load: could not open weights file: %v", err)
	}
	defer file.Close()

	var run savedRun
	dec := gob.NewDecoder(file)
	if err := dec.Decode(&run); err != nil {
		return nil, fmt.Errorf("load: could not decode weights: %v", err)
	}

	if len(run.Weights) == 0 {
		return nil, fmt.Errorf("load: checkpoint holds no weights")
	}
	for _, w := range run.Weights {
		if w.Name == "" || len(w.Shape) == 0 || len(w.Data) == 0 {
			return nil, fmt.Errorf("load: checkpoint weight %q is "+
				"incomplete", w.Name)
		}
	}

	return &Checkpoint{
		Name:       filepath.Base(runDir),
		Config:     config,
		Weights:    run.Weights,
		Rewards:    run.Rewards,
		Losses:     run.Losses,
		Advantages: run.Advantages,
	}, nil
}

// Apply sets the learnable weights of net to the weights stored in the
// Checkpoint, matching weights to nodes by name
func (c *Checkpoint) Apply(net network.NeuralNet) error {
	byName := make(map[string]WeightTensor, len(c.Weights))
	for _, w := range c.Weights {
		byName[w.Name] = w
	}

	for _, node := range net.Learnables() {
		w, ok := byName[node.Name()]
		if !ok {
			return fmt.Errorf("apply: no stored weight for node %v",
				node.Name())
		}

		size := 1
		for _, dim := range w.Shape {
			size *= dim
		}
		if size != len(w.Data) {
			return fmt.Errorf("apply: weight %v shape %v does not match "+
				"%v stored values", w.Name, w.Shape, len(w.Data))
		}

		t := tensor.NewDense(
			tensor.Float64,
			w.Shape,
			tensor.WithBacking(append([]float64{}, w.Data...)),
		)
		if err := G.Let(node, t); err != nil {
			return fmt.Errorf("apply: could not set node %v: %v",
				node.Name(), err)
		}
	}

	return nil
}
