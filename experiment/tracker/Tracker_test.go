package tracker_test

import (
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasgandara/govpg/experiment/tracker"
	ts "github.com/lucasgandara/govpg/timestep"
)

// episode feeds a Tracker one full episode with the argument rewards
func episode(tr tracker.Tracker, rewards []float64) {
	obs := mat.NewVecDense(1, []float64{0})

	first := ts.New(ts.First, 0, 1.0, obs, 0)
	tr.Track(first)

	for i, r := range rewards {
		stepType := ts.Mid
		if i == len(rewards)-1 {
			stepType = ts.Last
		}
		tr.Track(ts.New(stepType, r, 1.0, obs, i+1))
	}
}

func TestReturnTracker(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "returns.bin")
	tr := tracker.NewReturn(filename)

	episode(tr, []float64{1, 2, 3})
	episode(tr, []float64{-1, 5})

	if err := tr.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := tracker.LoadData(filename)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{6, 4}
	if len(data) != len(want) {
		t.Fatalf("got %v returns, want %v", len(data), len(want))
	}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("return %v: got %v, want %v", i, data[i], want[i])
		}
	}
}

func TestEpisodeLengthTracker(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "lengths.bin")
	tr := tracker.NewEpisodeLength(filename)

	episode(tr, []float64{1, 2, 3})
	episode(tr, []float64{-1, 5})

	if err := tr.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := tracker.LoadData(filename)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{3, 2}
	if len(data) != len(want) {
		t.Fatalf("got %v lengths, want %v", len(data), len(want))
	}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("length %v: got %v, want %v", i, data[i], want[i])
		}
	}
}

func TestReturnTrackerUnfinishedEpisode(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "returns.bin")
	tr := tracker.NewReturn(filename)

	episode(tr, []float64{1, 1})

	// A second episode that never finishes
	obs := mat.NewVecDense(1, []float64{0})
	tr.Track(ts.New(ts.First, 0, 1.0, obs, 0))
	tr.Track(ts.New(ts.Mid, 100, 1.0, obs, 1))

	if err := tr.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := tracker.LoadData(filename)
	if err != nil {
		t.Fatal(err)
	}

	if len(data) != 1 || data[0] != 2 {
		t.Errorf("only the finished episode should be saved, got %v", data)
	}
}
