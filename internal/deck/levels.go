package deck

// Level is a difficulty name chosen by the player.
type Level string

const (
	Easy   Level = "facil"
	Medium Level = "medio"
	Hard   Level = "dificil"
)

var levelPairs = map[Level]int{
	Easy:   3,
	Medium: 6,
	Hard:   12,
}

// ParseLevel maps a level name to a known Level, defaulting to Easy.
func ParseLevel(s string) Level {
	l := Level(s)
	if _, ok := levelPairs[l]; ok {
		return l
	}
	return Easy
}

// Pairs is the number of card pairs dealt at this level.
func (l Level) Pairs() int { return levelPairs[ParseLevel(string(l))] }

// Levels lists the known levels from easiest to hardest.
func Levels() []Level { return []Level{Easy, Medium, Hard} }
