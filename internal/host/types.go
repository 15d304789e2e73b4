package host

// Channel selects how text reaches a player.
type Channel int

const (
	ChannelChat Channel = iota
	ChannelActionBar
	ChannelTitle
)

func (c Channel) String() string {
	switch c {
	case ChannelActionBar:
		return "actionbar"
	case ChannelTitle:
		return "title"
	default:
		return "chat"
	}
}

// Message is text sent to an entity. Subtitle and the fade timings only apply to titles.
type Message struct {
	Channel  Channel
	Text     string
	Subtitle string
	FadeIn   int
	Stay     int
	FadeOut  int
}

// Status is a timed status effect (a potion effect in Minecraft terms).
type Status struct {
	Kind          string
	DurationTicks int
	Amplifier     int
	Ambient       bool
	Particles     bool
	Icon          bool
}

// Color is an RGB colour.
type Color struct {
	R, G, B uint8
}

// Dust carries the extra options of dust particles.
type Dust struct {
	From       Color
	To         Color
	Size       float64
	Transition bool
}

// Particle describes one particle burst.
type Particle struct {
	Kind   string
	Count  int
	Offset Vector
	Speed  float64
	Dust   *Dust
	Force  bool
}

// Sound describes one sound emission.
type Sound struct {
	Kind     string
	Category string
	Volume   float64
	Pitch    float64
}

// Explosion describes an explosion.
type Explosion struct {
	Power       float64
	SetFire     bool
	BreakBlocks bool

	// Source is nil for explosions that should not be attributed to anyone.
	Source Entity
}
