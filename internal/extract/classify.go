package extract

import (
	"errors"
	"math"
	"regexp"
	"strconv"

	"github.com/pdiddy/course-extractor/pkg/types"
)

var (
	// identifierPartRe matches the part number embedded in an identifier (part3-12).
	identifierPartRe = regexp.MustCompile(`part(\d+)`)

	// exerciseNumberRe matches the sequence number following the part (part3-12).
	exerciseNumberRe = regexp.MustCompile(`part\d+-(\d+)`)

	// pathPartRe matches the part directory in a document path (data/part-3/...).
	pathPartRe = regexp.MustCompile(`part-(\d+)`)
)

// Classification holds the ordering and difficulty attributes of one exercise.
// PartNumber and IdentifierPart are computed independently and may disagree.
type Classification struct {
	Difficulty     types.Difficulty
	PartNumber     int
	IdentifierPart int
	ExerciseNumber int
}

// Classify derives difficulty from the identifier and ordering attributes
// from both the identifier and the source path.
func Classify(id, path string) Classification {
	idPart, _ := firstNumber(identifierPartRe, id)
	return Classification{
		Difficulty:     DifficultyFor(id),
		PartNumber:     PartFromPath(path),
		IdentifierPart: idPart,
		ExerciseNumber: ExerciseNumber(id),
	}
}

// DifficultyFor maps the part number embedded in id to a difficulty:
// parts up to 3 are beginner, 4 to 8 intermediate, above 8 advanced.
// Identifiers without a part number are intermediate.
func DifficultyFor(id string) types.Difficulty {
	n, ok := firstNumber(identifierPartRe, id)
	switch {
	case !ok:
		return types.DifficultyIntermediate
	case n <= 3:
		return types.DifficultyBeginner
	case n <= 8:
		return types.DifficultyIntermediate
	default:
		return types.DifficultyAdvanced
	}
}

// PartFromPath returns the part-N number in path, or 1.
func PartFromPath(path string) int {
	if n, ok := firstNumber(pathPartRe, path); ok {
		return n
	}
	return 1
}

// ExerciseNumber returns M from an identifier like partN-M, or 1.
func ExerciseNumber(id string) int {
	if n, ok := firstNumber(exerciseNumberRe, id); ok {
		return n
	}
	return 1
}

// firstNumber parses the first submatch of re in s. Values too large for an
// int saturate at math.MaxInt.
func firstNumber(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return math.MaxInt, true
		}
		return 0, false
	}
	return n, true
}
