package evo

// Status is an agent's run state. Dead and ReachedGoal are terminal.
type Status uint8

const (
	Active Status = iota
	Dead
	ReachedGoal
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Dead:
		return "dead"
	case ReachedGoal:
		return "reached"
	default:
		return "unknown"
	}
}

// Agent is a single dot: a genome plus the state of its current run.
type Agent struct {
	Pos     Point
	Genome  Genome
	Step    int
	Status  Status
	Fitness float64
	Elite   bool
}

// AgentView is the read-only projection front ends draw from.
type AgentView struct {
	Pos    Point
	Status Status
	Elite  bool
	Step   int
}

// NewAgent places an agent owning g at the world's start.
func NewAgent(g Genome, w World) *Agent {
	a := &Agent{Genome: g}
	a.Reset(w)
	return a
}

// Reset starts a fresh run. The elite flag is cleared; the population sets
// it again on the elite slot.
func (a *Agent) Reset(w World) {
	a.Pos = w.Start
	a.Step = 0
	a.Status = Active
	a.Fitness = 0
	a.Elite = false
}

// Update consumes one move. Leaving the bounds wins over reaching the goal
// when a single move does both.
func (a *Agent) Update(w World) {
	if a.Status != Active {
		return
	}
	if a.Step >= len(a.Genome) {
		a.Status = Dead
		return
	}

	a.Pos = a.Pos.Add(a.Genome[a.Step].Delta())
	a.Step++

	if !w.Bounds.Contains(a.Pos) {
		a.Status = Dead
	} else if a.Pos.DistSq(w.Goal) < w.GoalRadius*w.GoalRadius {
		a.Status = ReachedGoal
	}
}

// ComputeFitness scores the finished run: reward/steps² for agents that
// reached the goal, the inverse squared distance to the goal otherwise. The
// squared distance is floored at 1 so the score stays finite and positive.
func (a *Agent) ComputeFitness(w World, reward float64) float64 {
	if a.Status == ReachedGoal {
		steps := float64(max(a.Step, 1))
		a.Fitness = reward / (steps * steps)
	} else {
		a.Fitness = 1 / max(a.Pos.DistSq(w.Goal), 1)
	}
	return a.Fitness
}

// CloneAsOffspring returns a fresh agent at the start with a private copy
// of a's genome.
func (a *Agent) CloneAsOffspring(w World) *Agent {
	return NewAgent(a.Genome.Clone(), w)
}

func (a *Agent) View() AgentView {
	return AgentView{Pos: a.Pos, Status: a.Status, Elite: a.Elite, Step: a.Step}
}
