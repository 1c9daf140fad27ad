package models

// ExerciseSet is one performed set within an exercise. Weight and reps are
// free text so partially filled input ("bodyweight", "8-10") stays
// representable while the user is still typing.
type ExerciseSet struct {
	Weight string `json:"weight"`
	Reps   string `json:"reps"`
}

// Exercise is an ordered list of sets under a single movement name.
type Exercise struct {
	Name string         `json:"name" validate:"required"`
	Sets []*ExerciseSet `json:"sets"`
}

// CloneExercises deep-copies a structured exercise list. Stores hand out
// copies so callers cannot mutate a persisted record in place.
func CloneExercises(exercises []*Exercise) []*Exercise {
	if exercises == nil {
		return nil
	}

	cloned := make([]*Exercise, 0, len(exercises))

	for _, exercise := range exercises {
		sets := make([]*ExerciseSet, 0, len(exercise.Sets))
		for _, set := range exercise.Sets {
			setCopy := *set
			sets = append(sets, &setCopy)
		}

		cloned = append(cloned, &Exercise{Name: exercise.Name, Sets: sets})
	}

	return cloned
}
