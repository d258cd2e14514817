package config

import "fmt"

// AnalyticsConfig centralizes every behavioral threshold used by the
// analytics, ml and privacy packages. The defaults are part of the external
// contract and must not drift.
type AnalyticsConfig struct {
	// Column classification
	IdentifierKeywords  []string `yaml:"identifier_keywords" envconfig:"IDENTIFIER_KEYWORDS" default:"号,id,编号,代码,索引,index"`
	CategoricalExcludes []string `yaml:"categorical_excludes" envconfig:"CATEGORICAL_EXCLUDES" default:"姓名,name,号,id"`
	SensitiveKeywords   []string `yaml:"sensitive_keywords" envconfig:"SENSITIVE_KEYWORDS" default:"名,name,号,id,手机,电话,身份"`

	// Cleaning
	OutlierSigma float64 `yaml:"outlier_sigma" envconfig:"OUTLIER_SIGMA" default:"3"`

	// Categorical and option listing
	CategoricalMaxDistinct int `yaml:"categorical_max_distinct" envconfig:"CATEGORICAL_MAX_DISTINCT" default:"15"`
	OptionsLimit           int `yaml:"options_limit" envconfig:"OPTIONS_LIMIT" default:"1000"`
	PreviewRows            int `yaml:"preview_rows" envconfig:"PREVIEW_ROWS" default:"15"`

	// Hypothesis tests
	NormalityAlpha    float64 `yaml:"normality_alpha" envconfig:"NORMALITY_ALPHA" default:"0.05"`
	SignificanceAlpha float64 `yaml:"significance_alpha" envconfig:"SIGNIFICANCE_ALPHA" default:"0.05"`
	MinNormalitySize  int     `yaml:"min_normality_size" envconfig:"MIN_NORMALITY_SIZE" default:"3"`

	// Insights
	SmallSampleRows       int     `yaml:"small_sample_rows" envconfig:"SMALL_SAMPLE_ROWS" default:"30"`
	MissingRatioThreshold float64 `yaml:"missing_ratio_threshold" envconfig:"MISSING_RATIO_THRESHOLD" default:"0.15"`
	SkewThreshold         float64 `yaml:"skew_threshold" envconfig:"SKEW_THRESHOLD" default:"1.5"`
	MinTargetCandidates   int     `yaml:"min_target_candidates" envconfig:"MIN_TARGET_CANDIDATES" default:"3"`
	RecommendedFeatures   int     `yaml:"recommended_features" envconfig:"RECOMMENDED_FEATURES" default:"3"`

	// Profile vectors
	RadarCeilingFactor float64 `yaml:"radar_ceiling_factor" envconfig:"RADAR_CEILING_FACTOR" default:"1.1"`

	// Regression
	MinTrainingRows int     `yaml:"min_training_rows" envconfig:"MIN_TRAINING_ROWS" default:"10"`
	TestRatio       float64 `yaml:"test_ratio" envconfig:"TEST_RATIO" default:"0.2"`
	Seed            int64   `yaml:"seed" envconfig:"SEED" default:"42"`
	Trees           int     `yaml:"trees" envconfig:"TREES" default:"100"`
	MaxScatterPairs int     `yaml:"max_scatter_pairs" envconfig:"MAX_SCATTER_PAIRS" default:"100"`

	// Confidence scoring
	DemoSampleSize    int     `yaml:"demo_sample_size" envconfig:"DEMO_SAMPLE_SIZE" default:"50"`
	ConfidenceR2Floor float64 `yaml:"confidence_r2_floor" envconfig:"CONFIDENCE_R2_FLOOR" default:"0.15"`
	ConfidenceCorrMin float64 `yaml:"confidence_corr_min" envconfig:"CONFIDENCE_CORR_MIN" default:"0.3"`
	DegenerateScale   float64 `yaml:"degenerate_scale" envconfig:"DEGENERATE_SCALE" default:"45"`
	AccuracyWeight    float64 `yaml:"accuracy_weight" envconfig:"ACCURACY_WEIGHT" default:"0.4"`
	TrendWeight       float64 `yaml:"trend_weight" envconfig:"TREND_WEIGHT" default:"0.6"`
	ConfidenceCeiling float64 `yaml:"confidence_ceiling" envconfig:"CONFIDENCE_CEILING" default:"99"`
	ConfidenceClamp   float64 `yaml:"confidence_clamp" envconfig:"CONFIDENCE_CLAMP" default:"98.75"`
	MAPEEpsilon       float64 `yaml:"mape_epsilon" envconfig:"MAPE_EPSILON" default:"1e-9"`

	// Masking
	MaskGlyph  string `yaml:"mask_glyph" envconfig:"MASK_GLYPH" default:"*"`
	MaskSuffix string `yaml:"mask_suffix" envconfig:"MASK_SUFFIX" default:"****"`
}

// DefaultAnalytics returns the canonical analytics constants
func DefaultAnalytics() AnalyticsConfig {
	return AnalyticsConfig{
		IdentifierKeywords:     []string{"号", "id", "编号", "代码", "索引", "index"},
		CategoricalExcludes:    []string{"姓名", "name", "号", "id"},
		SensitiveKeywords:      []string{"名", "name", "号", "id", "手机", "电话", "身份"},
		OutlierSigma:           3,
		CategoricalMaxDistinct: 15,
		OptionsLimit:           1000,
		PreviewRows:            15,
		NormalityAlpha:         0.05,
		SignificanceAlpha:      0.05,
		MinNormalitySize:       3,
		SmallSampleRows:        30,
		MissingRatioThreshold:  0.15,
		SkewThreshold:          1.5,
		MinTargetCandidates:    3,
		RecommendedFeatures:    3,
		RadarCeilingFactor:     1.1,
		MinTrainingRows:        10,
		TestRatio:              0.2,
		Seed:                   42,
		Trees:                  100,
		MaxScatterPairs:        100,
		DemoSampleSize:         50,
		ConfidenceR2Floor:      0.15,
		ConfidenceCorrMin:      0.3,
		DegenerateScale:        45,
		AccuracyWeight:         0.4,
		TrendWeight:            0.6,
		ConfidenceCeiling:      99,
		ConfidenceClamp:        98.75,
		MAPEEpsilon:            1e-9,
		MaskGlyph:              "*",
		MaskSuffix:             "****",
	}
}

// Validate rejects settings that would make the algorithms undefined
func (a AnalyticsConfig) Validate() error {
	if a.TestRatio <= 0 || a.TestRatio >= 1 {
		return fmt.Errorf("test ratio must be in (0,1), got %v", a.TestRatio)
	}
	if a.Trees <= 0 {
		return fmt.Errorf("tree count must be positive, got %d", a.Trees)
	}
	if a.MinTrainingRows < 2 {
		return fmt.Errorf("min training rows must be at least 2, got %d", a.MinTrainingRows)
	}
	if a.OutlierSigma < 0 {
		return fmt.Errorf("outlier sigma must not be negative")
	}
	if a.MaskGlyph == "" {
		return fmt.Errorf("mask glyph must not be empty")
	}
	return nil
}
