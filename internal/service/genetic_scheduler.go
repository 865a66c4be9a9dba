package service

import (
	"math/rand"
	"sort"

	"github.com/noah-isme/jadwal-api/internal/models"
)

const (
	fitnessCeiling = 100.0
	clashPenalty   = 20.0
)

// GeneticConfig tunes the population search.
type GeneticConfig struct {
	Generations  int
	EliteCount   int
	MutationRate float64
}

// Chromosome is one candidate (course, room, shift, lecturer) tuple.
type Chromosome struct {
	CourseID   string  `json:"courseId"`
	RoomID     string  `json:"roomId"`
	ShiftID    string  `json:"shiftId"`
	LecturerID string  `json:"lecturerId"`
	Fitness    float64 `json:"fitness"`
}

// GeneticResult holds the final population sorted by fitness together with
// the best and mean fitness of every generation.
type GeneticResult struct {
	Population  []Chromosome
	BestFitness []float64
	MeanFitness []float64
}

// Best returns the highest scoring chromosome per course.
func (r GeneticResult) Best() map[string]Chromosome {
	best := make(map[string]Chromosome, len(r.Population))
	for _, c := range r.Population {
		if current, ok := best[c.CourseID]; !ok || c.Fitness > current.Fitness {
			best[c.CourseID] = c
		}
	}
	return best
}

// GeneticScheduler searches for course tuples with few shift-level clashes.
// It is a heuristic and does not guarantee a clash-free population.
type GeneticScheduler struct {
	cfg GeneticConfig
	rng *rand.Rand
}

// NewGeneticScheduler applies defaults and binds the random source.
func NewGeneticScheduler(cfg GeneticConfig, rng *rand.Rand) *GeneticScheduler {
	if cfg.Generations <= 0 {
		cfg.Generations = 50
	}
	if cfg.EliteCount < 0 {
		cfg.EliteCount = 0
	}
	if cfg.MutationRate < 0 || cfg.MutationRate > 1 {
		cfg.MutationRate = 0.1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &GeneticScheduler{cfg: cfg, rng: rng}
}

// Run evolves one chromosome per course for the configured generations.
func (g *GeneticScheduler) Run(courses []models.Course, rooms []models.Room, shifts []models.Shift, lecturers []models.Lecturer) GeneticResult {
	if len(courses) == 0 || len(rooms) == 0 || len(shifts) == 0 || len(lecturers) == 0 {
		return GeneticResult{}
	}

	population := make([]Chromosome, len(courses))
	for i, course := range courses {
		population[i] = Chromosome{
			CourseID:   course.ID,
			RoomID:     rooms[g.rng.Intn(len(rooms))].ID,
			ShiftID:    shifts[g.rng.Intn(len(shifts))].ID,
			LecturerID: g.pickLecturer(course, lecturers),
		}
	}

	result := GeneticResult{
		BestFitness: make([]float64, 0, g.cfg.Generations),
		MeanFitness: make([]float64, 0, g.cfg.Generations),
	}

	elites := g.cfg.EliteCount
	if elites > len(population) {
		elites = len(population)
	}

	// Carried elites keep the score they were selected with so the best
	// fitness never drops from one generation to the next.
	carried := 0
	for gen := 0; gen < g.cfg.Generations; gen++ {
		scorePopulation(population, carried)
		sortByFitness(population)

		best, mean := fitnessStats(population)
		result.BestFitness = append(result.BestFitness, best)
		result.MeanFitness = append(result.MeanFitness, mean)

		next := make([]Chromosome, 0, len(population))
		next = append(next, population[:elites]...)
		for len(next) < len(population) {
			p1 := population[g.rng.Intn(len(population))]
			p2 := population[g.rng.Intn(len(population))]
			child := g.crossover(p1, p2)
			if g.rng.Float64() < g.cfg.MutationRate {
				child = g.mutate(child, courses, rooms, shifts, lecturers)
			}
			next = append(next, child)
		}
		population = next
		carried = elites
	}

	scorePopulation(population, carried)
	sortByFitness(population)
	result.Population = population
	return result
}

// Fitness scores c against the rest of population: 100 minus 20 for every
// other chromosome sharing (room, shift), (lecturer, shift) or (course, shift),
// never below zero. Index self is skipped.
func Fitness(population []Chromosome, self int) float64 {
	c := population[self]
	score := fitnessCeiling
	for i, other := range population {
		if i == self || other.ShiftID != c.ShiftID {
			continue
		}
		if other.RoomID == c.RoomID {
			score -= clashPenalty
		}
		if other.LecturerID == c.LecturerID {
			score -= clashPenalty
		}
		if other.CourseID == c.CourseID {
			score -= clashPenalty
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// scorePopulation scores population[from:] against the whole population.
func scorePopulation(population []Chromosome, from int) {
	for i := from; i < len(population); i++ {
		population[i].Fitness = Fitness(population, i)
	}
}

func sortByFitness(population []Chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].Fitness > population[j].Fitness
	})
}

func fitnessStats(population []Chromosome) (best, mean float64) {
	if len(population) == 0 {
		return 0, 0
	}
	var total float64
	for _, c := range population {
		total += c.Fitness
		if c.Fitness > best {
			best = c.Fitness
		}
	}
	return best, total / float64(len(population))
}

func (g *GeneticScheduler) crossover(p1, p2 Chromosome) Chromosome {
	child := Chromosome{}
	child.CourseID = g.gene(p1.CourseID, p2.CourseID)
	child.RoomID = g.gene(p1.RoomID, p2.RoomID)
	child.ShiftID = g.gene(p1.ShiftID, p2.ShiftID)
	child.LecturerID = g.gene(p1.LecturerID, p2.LecturerID)
	return child
}

func (g *GeneticScheduler) gene(a, b string) string {
	if g.rng.Intn(2) == 0 {
		return a
	}
	return b
}

func (g *GeneticScheduler) mutate(c Chromosome, courses []models.Course, rooms []models.Room, shifts []models.Shift, lecturers []models.Lecturer) Chromosome {
	switch g.rng.Intn(4) {
	case 0:
		c.CourseID = courses[g.rng.Intn(len(courses))].ID
	case 1:
		c.RoomID = rooms[g.rng.Intn(len(rooms))].ID
	case 2:
		c.ShiftID = shifts[g.rng.Intn(len(shifts))].ID
	default:
		c.LecturerID = lecturers[g.rng.Intn(len(lecturers))].ID
	}
	return c
}

// pickLecturer seeds a chromosome with an eligible lecturer when one exists.
func (g *GeneticScheduler) pickLecturer(course models.Course, lecturers []models.Lecturer) string {
	eligible := make([]models.Lecturer, 0, len(lecturers))
	for _, lecturer := range lecturers {
		if lecturerEligibleFor(lecturer, course) {
			eligible = append(eligible, lecturer)
		}
	}
	if len(eligible) == 0 {
		eligible = lecturers
	}
	return eligible[g.rng.Intn(len(eligible))].ID
}
