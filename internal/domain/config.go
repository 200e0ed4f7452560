package domain

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type KeywordRule struct {
	Theme    string   `yaml:"theme" json:"theme" validate:"required"`
	Keywords []string `yaml:"keywords" json:"keywords" validate:"min=1,dive,required"`
}

type RankerWeights struct {
	Volume float64 `yaml:"volume" json:"volume" validate:"gte=0,lte=1"`
	Cap    float64 `yaml:"cap" json:"cap" validate:"gte=0,lte=1"`
	Change float64 `yaml:"change" json:"change" validate:"gte=0,lte=1"`
	News   float64 `yaml:"news" json:"news" validate:"gte=0,lte=1"`
}

func (w RankerWeights) Sum() float64 {
	return w.Volume + w.Cap + w.Change + w.News
}

type LimitUpConfig struct {
	// DefaultCeilingPct applies to any symbol without an exchange
	// specific rule
	DefaultCeilingPct float64 `yaml:"default_ceiling_pct" json:"default_ceiling_pct" validate:"gt=0"`
	UseTsePriceLimits bool    `yaml:"use_tse_price_limits" json:"use_tse_price_limits"`
}

type SimilarityConfig struct {
	Enabled       bool    `yaml:"enabled" json:"enabled"`
	MinSimilarity float64 `yaml:"min_similarity" json:"min_similarity" validate:"gt=0,lte=1"`
	MinSamples    int     `yaml:"min_samples" json:"min_samples" validate:"gte=2"`
}

type ScreenerConfig struct {
	MinGainPct           float64          `yaml:"min_gain_pct" json:"min_gain_pct"`
	MinClusterSize       int              `yaml:"min_cluster_size" json:"min_cluster_size"`
	RankerWeights        RankerWeights    `yaml:"ranker_weights" json:"ranker_weights"`
	KeywordRules         []KeywordRule    `yaml:"keyword_rules" json:"keyword_rules" validate:"min=1,dive"`
	LimitUp              LimitUpConfig    `yaml:"limit_up" json:"limit_up"`
	MaxNewsPerStock      int              `yaml:"max_news_per_stock" json:"max_news_per_stock" validate:"gte=1"`
	NewsPerStockInReport int              `yaml:"news_per_stock_in_report" json:"news_per_stock_in_report" validate:"gte=0"`
	TopThemeCount        int              `yaml:"top_theme_count" json:"top_theme_count" validate:"gte=0"`
	TopGainerCount       int              `yaml:"top_gainer_count" json:"top_gainer_count" validate:"gte=0"`
	SimilarityFallback   SimilarityConfig `yaml:"similarity_fallback" json:"similarity_fallback"`
	RoleLocale           string           `yaml:"role_locale" json:"role_locale" validate:"oneof=en ja"`
}

const weightSumTolerance = 1e-6

func DefaultRankerWeights() RankerWeights {
	return RankerWeights{
		Volume: 0.4,
		Cap:    0.2,
		Change: 0.2,
		News:   0.2,
	}
}

func DefaultScreenerConfig() ScreenerConfig {
	return ScreenerConfig{
		MinGainPct:     20.0,
		MinClusterSize: 2,
		RankerWeights:  DefaultRankerWeights(),
		KeywordRules:   DefaultKeywordRules(),
		LimitUp: LimitUpConfig{
			DefaultCeilingPct: 23.0,
			UseTsePriceLimits: true,
		},
		MaxNewsPerStock:      10,
		NewsPerStockInReport: 3,
		TopThemeCount:        3,
		TopGainerCount:       10,
		SimilarityFallback: SimilarityConfig{
			Enabled:       false,
			MinSimilarity: 0.7,
			MinSamples:    2,
		},
		RoleLocale: "en",
	}
}

// DefaultKeywordRules is the built-in theme table. Order is priority:
// the first matching rule wins for a headline, and equal-confidence
// labels resolve to the lower index.
func DefaultKeywordRules() []KeywordRule {
	return []KeywordRule{
		{Theme: "AI", Keywords: []string{"AI", "人工知能", "機械学習", "ChatGPT", "ディープラーニング", "生成AI", "artificial intelligence", "machine learning"}},
		{Theme: "semiconductors", Keywords: []string{"半導体", "チップ", "TSMC", "エヌビディア", "ファウンドリ", "semiconductor", "semiconductors", "chip", "chips", "Nvidia", "foundry"}},
		{Theme: "EV", Keywords: []string{"EV", "電気自動車", "テスラ", "バッテリー", "充電", "electric vehicle", "Tesla", "battery"}},
		{Theme: "renewable-energy", Keywords: []string{"太陽光", "風力", "再生可能エネルギー", "脱炭素", "カーボンニュートラル", "solar", "wind power", "renewable"}},
		{Theme: "metaverse", Keywords: []string{"メタバース", "VR", "AR", "仮想空間", "NFT", "metaverse"}},
		{Theme: "quantum-computing", Keywords: []string{"量子コンピュータ", "量子計算", "キュービット", "quantum"}},
		{Theme: "biotech", Keywords: []string{"創薬", "バイオ", "治験", "FDA", "承認", "ワクチン", "drug discovery", "clinical trial", "vaccine", "biotech"}},
		{Theme: "5G-telecom", Keywords: []string{"5G", "6G", "基地局", "通信インフラ", "base station"}},
		{Theme: "space", Keywords: []string{"宇宙", "ロケット", "衛星", "JAXA", "NASA", "rocket", "satellite"}},
		{Theme: "robotics", Keywords: []string{"ロボット", "自動化", "FA", "協働ロボット", "robot", "robotics", "automation"}},
		{Theme: "defense", Keywords: []string{"防衛", "防衛費", "安全保障", "自衛隊", "defense", "defence"}},
		{Theme: "inbound-tourism", Keywords: []string{"インバウンド", "訪日客", "観光", "ホテル", "免税", "tourism", "hotel"}},
		{Theme: "weak-yen", Keywords: []string{"円安", "ドル高", "為替", "輸出", "weak yen"}},
		{Theme: "interest-rates", Keywords: []string{"金利", "利上げ", "日銀", "FRB", "金融政策", "interest rate", "rate hike", "BOJ", "Fed"}},
	}
}

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the config before a run. Every failure is a
// *ConfigError.
func (c ScreenerConfig) Validate() error {
	if c.MinGainPct <= 0 || math.IsNaN(c.MinGainPct) {
		return &ConfigError{Field: "min_gain_pct", Reason: fmt.Sprintf("must be positive, got %v", c.MinGainPct)}
	}
	if c.MinClusterSize < 2 {
		return &ConfigError{Field: "min_cluster_size", Reason: fmt.Sprintf("must be at least 2, got %d", c.MinClusterSize)}
	}

	err := configValidator.Struct(c)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			fe := validationErrs[0]
			return &ConfigError{
				Field:  strings.TrimPrefix(fe.Namespace(), "ScreenerConfig."),
				Reason: fmt.Sprintf("failed %q check (value %v)", fe.Tag(), fe.Value()),
			}
		}
		return &ConfigError{Field: "config", Reason: err.Error()}
	}

	sum := c.RankerWeights.Sum()
	if math.Abs(sum-1) > weightSumTolerance {
		return &ConfigError{Field: "ranker_weights", Reason: fmt.Sprintf("must sum to 1.0, got %v", sum)}
	}

	seen := map[string]bool{}
	for i, rule := range c.KeywordRules {
		theme := strings.TrimSpace(rule.Theme)
		if theme == "" {
			return &ConfigError{Field: fmt.Sprintf("keyword_rules[%d].theme", i), Reason: "must not be blank"}
		}
		if theme == UncategorizedTheme {
			return &ConfigError{Field: fmt.Sprintf("keyword_rules[%d].theme", i), Reason: "uncategorized is reserved"}
		}
		if strings.HasPrefix(theme, FallbackThemePrefix) {
			return &ConfigError{Field: fmt.Sprintf("keyword_rules[%d].theme", i), Reason: fmt.Sprintf("prefix %q is reserved", FallbackThemePrefix)}
		}
		if seen[theme] {
			return &ConfigError{Field: fmt.Sprintf("keyword_rules[%d].theme", i), Reason: fmt.Sprintf("duplicate theme %q", theme)}
		}
		seen[theme] = true
		for j, kw := range rule.Keywords {
			if strings.TrimSpace(kw) == "" {
				return &ConfigError{Field: fmt.Sprintf("keyword_rules[%d].keywords[%d]", i, j), Reason: "must not be blank"}
			}
		}
	}

	return nil
}
