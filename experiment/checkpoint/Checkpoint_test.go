package checkpoint_test

import (
	"math"
	"testing"

	"gorgonia.org/tensor"

	"github.com/lucasgandara/govpg/experiment/checkpoint"
	"github.com/lucasgandara/govpg/initwfn"
	"github.com/lucasgandara/govpg/network"
	"github.com/lucasgandara/govpg/policy"
	"github.com/lucasgandara/govpg/vpg"
)

func newTestNetwork(t *testing.T, seed uint64) network.NeuralNet {
	init, err := initwfn.NewGlorotN(math.Sqrt(2.0))
	if err != nil {
		t.Fatal(err)
	}

	p, err := policy.NewCategoricalMLP(4, 2, 1, []int{8}, []bool{true},
		[]*network.Activation{network.ReLU()}, init.InitWFn(), seed)
	if err != nil {
		t.Fatal(err)
	}
	return p.Network()
}

func weightData(t *testing.T, net network.NeuralNet) map[string][]float64 {
	weights := make(map[string][]float64)
	for _, node := range net.Learnables() {
		data := node.Value().(tensor.Tensor).Data().([]float64)
		weights[node.Name()] = append([]float64{}, data...)
	}
	return weights
}

func TestCheckpointRoundtrip(t *testing.T) {
	net := newTestNetwork(t, 42)

	config := vpg.NewConfig()
	config.Epochs = 7

	rewards := []float64{1, 2, 3}
	losses := []float64{-0.5, -0.25, -0.125}
	advantages := []float64{0.1, 0.2, 0.3}

	ckpt, err := checkpoint.New("roundtrip", config, net, rewards, losses,
		advantages)
	if err != nil {
		t.Fatal(err)
	}

	runDir, err := ckpt.Save(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := checkpoint.Load(runDir)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Config.Epochs != 7 {
		t.Errorf("got %v epochs, want 7", loaded.Config.Epochs)
	}
	if len(loaded.Rewards) != len(rewards) {
		t.Errorf("got %v rewards, want %v", len(loaded.Rewards),
			len(rewards))
	}
	if len(loaded.Losses) != len(losses) {
		t.Errorf("got %v losses, want %v", len(loaded.Losses), len(losses))
	}

	// The loaded weights match the network they came from
	want := weightData(t, net)
	if len(loaded.Weights) != len(want) {
		t.Fatalf("got %v weights, want %v", len(loaded.Weights), len(want))
	}
	for _, w := range loaded.Weights {
		stored, ok := want[w.Name]
		if !ok {
			t.Errorf("unexpected weight %v", w.Name)
			continue
		}
		for i := range stored {
			if w.Data[i] != stored[i] {
				t.Errorf("weight %v differs at index %v", w.Name, i)
				break
			}
		}
	}
}

func TestCheckpointApply(t *testing.T) {
	source := newTestNetwork(t, 42)
	dest := newTestNetwork(t, 1234)

	config := vpg.NewConfig()
	ckpt, err := checkpoint.New("apply", config, source, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	runDir, err := ckpt.Save(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := checkpoint.Load(runDir)
	if err != nil {
		t.Fatal(err)
	}

	if err := loaded.Apply(dest); err != nil {
		t.Fatal(err)
	}

	sourceWeights := weightData(t, source)
	destWeights := weightData(t, dest)

	for name, want := range sourceWeights {
		got, ok := destWeights[name]
		if !ok {
			t.Errorf("destination network has no weight %v", name)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("weight %v differs at index %v after apply",
					name, i)
				break
			}
		}
	}
}

func TestCheckpointLoadMissing(t *testing.T) {
	if _, err := checkpoint.Load(t.TempDir()); err == nil {
		t.Error("loading a nonexistent checkpoint should fail")
	}
}
