package domain

const (
	UncategorizedTheme = "uncategorized"
	// FallbackThemePrefix names labels produced by similarity clustering
	FallbackThemePrefix = "cluster_"
)

// ThemeLabel tags a stock with a theme. RuleIndex is the position of the
// rule that produced it in the keyword table and doubles as the tie-break
// between labels of equal confidence.
type ThemeLabel struct {
	Name       string
	Confidence float64
	RuleIndex  int
	Evidence   []NewsItem
}

func UncategorizedLabel() ThemeLabel {
	return ThemeLabel{
		Name:      UncategorizedTheme,
		RuleIndex: -1,
	}
}

func (l ThemeLabel) IsUncategorized() bool {
	return l.Name == UncategorizedTheme
}

type Role int

const (
	RoleFollower Role = iota
	RoleLeader
)

func (r Role) String() string {
	if r == RoleLeader {
		return "leader"
	}
	return "follower"
}

type SubScores struct {
	VolumeNorm float64
	CapNorm    float64
	ChangeNorm float64
	NewsNorm   float64
}

// RankedEntry is a cluster member. Score, Role and Rank are zero until
// the ranker has run.
type RankedEntry struct {
	Stock     *StockMove
	SubScores SubScores
	Score     float64
	Role      Role
	Rank      int
}

type ThemeCluster struct {
	Label        string
	Members      []RankedEntry
	TotalVolume  int64
	AvgChangePct float64
}

func (c ThemeCluster) MemberCount() int {
	return len(c.Members)
}

// Leader returns the rank 1 member, or nil before ranking
func (c ThemeCluster) Leader() *RankedEntry {
	for i := range c.Members {
		if c.Members[i].Role == RoleLeader {
			return &c.Members[i]
		}
	}
	return nil
}
