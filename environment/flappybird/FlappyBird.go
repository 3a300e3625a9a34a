// Package flappybird implements the Flappy Bird environment. A bird
// falls under gravity and can flap to gain upward velocity. The agent
// must steer the bird through the gaps of an endless series of pipes.
package flappybird

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/lucasgandara/govpg/environment"
	ts "github.com/lucasgandara/govpg/timestep"
)

const (
	// Screen geometry in pixels
	ScreenWidth  float64 = 288.0
	ScreenHeight float64 = 512.0

	// Scale between box2d world coordinates and pixels
	Scale float64 = 30.0

	// Bird physics
	BirdX       float64 = 57.0 // fixed horizontal pixel position
	BirdRadius  float64 = 12.0
	Gravity     float64 = -10.0
	FlapImpulse float64 = 5.0
	Dt          float64 = 1.0 / 30.0

	// Pipe geometry, in pixels
	PipeWidth   float64 = 52.0
	PipeGap     float64 = 100.0
	PipeSpeed   float64 = 4.0
	PipeSpacing float64 = 144.0

	// Margin the gap center keeps from the screen edges
	GapMargin float64 = 80.0

	// Rewards
	StepReward  float64 = 1.0
	PipeReward  float64 = 100.0
	CrashReward float64 = -1.0

	// Discrete actions
	MinDiscreteAction int = 0
	MaxDiscreteAction int = 1
)

// pipe is a single pipe pair, described by the pixel position of its
// left edge and the vertical center of its gap
type pipe struct {
	x         float64
	gapCenter float64
}

// top and bottom return the pixel heights of the gap's edges
func (p pipe) top() float64    { return p.gapCenter + PipeGap/2 }
func (p pipe) bottom() float64 { return p.gapCenter - PipeGap/2 }

// FlappyBird implements the Flappy Bird environment.
//
// The state features are continuous:
//
//	Feature		Meaning
//	  0			bird height in pixels
//	  1			distance from the bird to the top of the next gap
//	  2			distance from the bird to the bottom of the next gap
//	  3			horizontal distance to the next pipe
//
// Actions are discrete and in {0, 1}:
//
//	Action		Meaning
//	  0			Do nothing
//	  1			Flap
//
// Illegal actions result in an error.
//
// The reward is +1 on every timestep the bird survives, +100 when the
// bird passes a pipe, and -1 on the timestep the bird crashes into a
// pipe, the floor, or the ceiling. Crashing ends the episode.
//
// FlappyBird implements the environment.Environment interface
type FlappyBird struct {
	world    box2d.B2World
	bird     *box2d.B2Body
	pipes    []pipe
	lastStep ts.TimeStep
	discount float64
	rng      *rand.Rand
}

// New constructs a new FlappyBird environment with the argument
// discount, returning the environment and its first timestep
func New(discount float64, seed uint64) (*FlappyBird, ts.TimeStep) {
	f := &FlappyBird{
		discount: discount,
		rng:      rand.New(rand.NewSource(seed)),
	}

	f.world = box2d.MakeB2World(box2d.MakeB2Vec2(0.0, Gravity))

	birdDef := box2d.NewB2BodyDef()
	birdDef.Type = box2d.B2BodyType.B2_dynamicBody
	birdDef.Position = box2d.MakeB2Vec2(BirdX/Scale, ScreenHeight/2/Scale)
	f.bird = f.world.CreateBody(birdDef)

	birdShape := box2d.NewB2CircleShape()
	birdShape.SetRadius(BirdRadius / Scale)

	birdFix := box2d.MakeB2FixtureDef()
	birdFix.Shape = birdShape
	birdFix.Density = 1.0
	f.bird.CreateFixtureFromDef(&birdFix)

	firstStep := f.Reset()
	return f, firstStep
}

// Start samples a starting state. The bird starts at a uniformly
// random height in the middle half of the screen with no velocity.
func (f *FlappyBird) Start() mat.Vector {
	height := ScreenHeight/4 + f.rng.Float64()*ScreenHeight/2

	f.bird.SetTransform(box2d.MakeB2Vec2(BirdX/Scale, height/Scale), 0)
	f.bird.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))

	f.pipes = f.pipes[:0]
	for i := 0; i < 3; i++ {
		f.pipes = append(f.pipes, f.newPipe(ScreenWidth+float64(i)*
			PipeSpacing))
	}

	return f.observation()
}

// newPipe returns a pipe at pixel position x with a randomized gap
func (f *FlappyBird) newPipe(x float64) pipe {
	gapRange := ScreenHeight - 2*GapMargin
	return pipe{
		x:         x,
		gapCenter: GapMargin + f.rng.Float64()*gapRange,
	}
}

// nextPipe returns the nearest pipe the bird has not yet passed
func (f *FlappyBird) nextPipe() pipe {
	next := f.pipes[0]
	for _, p := range f.pipes {
		if p.x+PipeWidth < BirdX-BirdRadius {
			continue
		}
		if next.x+PipeWidth < BirdX-BirdRadius || p.x < next.x {
			next = p
		}
	}
	return next
}

// observation constructs the state observation from the physics state
func (f *FlappyBird) observation() mat.Vector {
	birdY := f.bird.GetPosition().Y * Scale
	next := f.nextPipe()

	return mat.NewVecDense(4, []float64{
		birdY,
		math.Abs(birdY - next.top()),
		math.Abs(birdY - next.bottom()),
		next.x - BirdX,
	})
}

// Reset resets the environment and returns the starting timestep
func (f *FlappyBird) Reset() ts.TimeStep {
	state := f.Start()
	startStep := ts.New(ts.First, 0, f.discount, state, 0)
	f.lastStep = startStep

	return startStep
}

// Step takes one environmental step given action a and returns the
// next timestep and a bool indicating whether or not the episode has
// ended. Legal actions are in {0, 1}; any other action results in an
// error and leaves the environment state unmodified.
func (f *FlappyBird) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	intAction := int(a.AtVec(0))
	if intAction < MinDiscreteAction || intAction > MaxDiscreteAction {
		return ts.TimeStep{}, true, fmt.Errorf("step: illegal action %v "+
			"∉ {0, 1}", intAction)
	}

	if intAction == 1 {
		// Flapping replaces the current vertical velocity
		velocity := f.bird.GetLinearVelocity()
		velocity.Y = FlapImpulse
		f.bird.SetLinearVelocity(velocity)
	}

	f.world.Step(Dt, 8, 3)

	// Scroll the pipes, recycling any that leave the screen
	passed := false
	for i := range f.pipes {
		f.pipes[i].x -= PipeSpeed
		if f.pipes[i].x+PipeWidth < BirdX-BirdRadius &&
			f.pipes[i].x+PipeWidth >= BirdX-BirdRadius-PipeSpeed {
			passed = true
		}
		if f.pipes[i].x+PipeWidth < 0 {
			f.pipes[i] = f.newPipe(f.pipes[i].x + 3*PipeSpacing)
		}
	}

	crashed := f.crashed()
	reward := StepReward
	if passed {
		reward += PipeReward
	}
	if crashed {
		reward = CrashReward
	}

	nextStep := ts.New(ts.Mid, reward, f.discount, f.observation(),
		f.lastStep.Number+1)
	if crashed {
		nextStep.StepType = ts.Last
		nextStep.SetEnd(ts.TerminalStateReached)
	}

	f.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// crashed reports whether the bird hit a pipe, the floor, or the
// ceiling
func (f *FlappyBird) crashed() bool {
	birdY := f.bird.GetPosition().Y * Scale

	if heightBounds := bounds(); birdY <= heightBounds.Min ||
		birdY >= heightBounds.Max {
		return true
	}

	for _, p := range f.pipes {
		overlapsX := BirdX+BirdRadius > p.x && BirdX-BirdRadius < p.x+PipeWidth
		if !overlapsX {
			continue
		}
		if birdY+BirdRadius > p.top() || birdY-BirdRadius < p.bottom() {
			return true
		}
	}
	return false
}

// ActionSpec returns the action specification of the environment
func (f *FlappyBird) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{float64(MinDiscreteAction)})
	upperBound := mat.NewVecDense(1, []float64{float64(MaxDiscreteAction)})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (f *FlappyBird) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(4, nil)

	lowerBound := mat.NewVecDense(4, []float64{0, 0, 0, -PipeWidth})
	upperBound := mat.NewVecDense(4, []float64{ScreenHeight, ScreenHeight,
		ScreenHeight, ScreenWidth})

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (f *FlappyBird) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{f.discount})

	return env.NewSpec(shape, env.Discount, bound, bound, env.Continuous)
}

// RewardSpec returns the reward specification of the environment
func (f *FlappyBird) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{CrashReward})
	upperBound := mat.NewVecDense(1, []float64{StepReward + PipeReward})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}

// bounds returns the interval of legal bird heights
func bounds() r1.Interval {
	return r1.Interval{Min: BirdRadius, Max: ScreenHeight - BirdRadius}
}

// String implements the fmt.Stringer interface
func (f *FlappyBird) String() string {
	birdY := f.bird.GetPosition().Y * Scale
	next := f.nextPipe()
	return fmt.Sprintf("FlappyBird  |  Height: %v  |  Next gap: [%v, %v]  "+
		"|  Pipe distance: %v", birdY, next.bottom(), next.top(),
		next.x-BirdX)
}
