package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rekindle/backend/internal/model"
)

// Config carries every tunable of the relationship intelligence engine:
// warmth component caps and thresholds, segment gazetteers and keyword
// lists, scan windows and phrase lists, and ranking weights. Services take
// their section at construction; nothing reads package-level state.
type Config struct {
	Warmth   WarmthConfig  `yaml:"warmth"`
	Segments SegmentConfig `yaml:"segments"`
	Scan     ScanConfig    `yaml:"scan"`
	Ranking  RankingConfig `yaml:"ranking"`
}

// WarmthConfig parametrizes the five warmth components.
type WarmthConfig struct {
	// MinSubstantiveLength is the minimum trimmed rune count for a message
	// to count as substantive.
	MinSubstantiveLength int `yaml:"min_substantive_length"`
	// ShallowReplies are anchored, case-insensitive regular expressions for
	// throwaway replies that never count as substantive.
	ShallowReplies []string `yaml:"shallow_replies"`

	RecencyMax      int `yaml:"recency_max"`       // points when fresher than RecencyFullDays
	RecencyFullDays int `yaml:"recency_full_days"` // full points below this many days
	RecencyZeroDays int `yaml:"recency_zero_days"` // zero points at or beyond

	FrequencyMax     int `yaml:"frequency_max"`
	FrequencyCeiling int `yaml:"frequency_ceiling"` // message count for full frequency points

	DepthLengthMax     int     `yaml:"depth_length_max"`
	DepthLengthCeiling int     `yaml:"depth_length_ceiling"` // avg chars for full length points
	DepthRatioMax      int     `yaml:"depth_ratio_max"`
	DepthRatioCeiling  float64 `yaml:"depth_ratio_ceiling"` // substantive ratio for full ratio points

	ResponsivenessMax int `yaml:"responsiveness_max"`
	InitiationMax     int `yaml:"initiation_max"`
}

// SegmentConfig carries the gazetteers and keyword lists the segmenter
// matches against. All entries are matched as lowercase substrings.
type SegmentConfig struct {
	LatamLocations []string `yaml:"latam_locations"`
	PNWLocations   []string `yaml:"pnw_locations"`
	AIKeywords     []string `yaml:"ai_keywords"`
}

// ScanConfig parametrizes the four resurrection detectors.
type ScanConfig struct {
	DormantDays      int `yaml:"dormant_days"`
	DormantMinWarmth int `yaml:"dormant_min_warmth"`

	PromiseLookbackDays int `yaml:"promise_lookback_days"`
	// PromisePatterns are case-insensitive regular expressions that mark a
	// sent message as containing a commitment.
	PromisePatterns []string `yaml:"promise_patterns"`

	QuestionLookbackDays int `yaml:"question_lookback_days"`
	// ShallowQuestions are case-insensitive regular expressions for
	// rhetorical questions that never need an answer.
	ShallowQuestions []string `yaml:"shallow_questions"`
	// MinQuestionLen is the minimum length of a question sentence
	// (including the question mark) to count as substantive.
	MinQuestionLen int `yaml:"min_question_len"`

	WaitingMinWarmth int `yaml:"waiting_min_warmth"`

	// DetailMaxLen truncates quoted sentences in hook details.
	DetailMaxLen int `yaml:"detail_max_len"`
}

// RankingConfig parametrizes the composite priority score.
type RankingConfig struct {
	WarmthWeight  float64 `yaml:"warmth_weight"`
	SegmentWeight float64 `yaml:"segment_weight"`
	UrgencyWeight float64 `yaml:"urgency_weight"`

	SegmentPoints  int `yaml:"segment_points"`   // per distinct tag
	SegmentCap     int `yaml:"segment_cap"`      // before the job_target bonus
	JobTargetBonus int `yaml:"job_target_bonus"` // total still capped at 100

	Urgency map[model.Hook]int `yaml:"urgency"`

	HookDescriptions    map[model.Hook]string    `yaml:"hook_descriptions"`
	SegmentDescriptions map[model.Segment]string `yaml:"segment_descriptions"`

	StrongWarmth int `yaml:"strong_warmth"` // warmth tier thresholds for reasons
	WarmWarmth   int `yaml:"warm_warmth"`
}

// Default returns the engine's built-in tuning.
func Default() Config {
	return Config{
		Warmth: WarmthConfig{
			MinSubstantiveLength: 100,
			ShallowReplies: []string{
				`^thanks?!*$`,
				`^thank you!*$`,
				`^congrats!*$`,
				`^congratulations!*$`,
				`^happy birthday!*$`,
				`^welcome!*$`,
				`^great!*$`,
				`^awesome!*$`,
				`^nice!*$`,
				`^cool!*$`,
				`^ok!*$`,
				`^okay!*$`,
				`^sure!*$`,
				`^yes!*$`,
				`^no!*$`,
				`^👍+$`,
				`^🎉+$`,
				`^😊+$`,
				`^🙏+$`,
				`^❤️+$`,
			},
			RecencyMax:         30,
			RecencyFullDays:    7,
			RecencyZeroDays:    365,
			FrequencyMax:       20,
			FrequencyCeiling:   50,
			DepthLengthMax:     15,
			DepthLengthCeiling: 500,
			DepthRatioMax:      10,
			DepthRatioCeiling:  0.5,
			ResponsivenessMax:  15,
			InitiationMax:      10,
		},
		Segments: SegmentConfig{
			LatamLocations: []string{
				// Countries
				"mexico", "méxico", "colombia", "argentina", "chile", "peru", "perú",
				"ecuador", "venezuela", "guatemala", "cuba", "bolivia",
				"dominican republic", "república dominicana", "honduras", "paraguay",
				"el salvador", "nicaragua", "costa rica", "panama", "panamá", "uruguay",
				"puerto rico",
				// Regions
				"latam", "latin america", "américa latina", "latinoamérica",
				"south america", "central america", "sudamérica", "centroamérica",
				// Major cities
				"mexico city", "ciudad de méxico", "cdmx", "bogotá", "bogota",
				"buenos aires", "santiago", "lima", "quito", "caracas", "montevideo",
				"san josé", "san jose", "guatemala city", "tegucigalpa", "san salvador",
				"managua", "panamá city", "panama city", "santo domingo", "havana",
				"la habana", "asunción", "asuncion", "la paz", "sucre",
				"medellín", "medellin", "cartagena", "cali", "barranquilla",
				"guadalajara", "monterrey", "tijuana", "cancún", "cancun",
				"córdoba", "cordoba", "rosario", "mendoza",
				"valparaíso", "valparaiso", "concepción", "concepcion",
				"arequipa", "trujillo", "cusco", "cuzco",
				"guayaquil", "cuenca",
				"maracaibo", "valencia", "barquisimeto",
			},
			PNWLocations: []string{
				// Washington
				"seattle", "washington", ", wa", "bellevue", "redmond", "kirkland",
				"tacoma", "spokane", "olympia", "everett", "renton", "kent",
				"federal way", "yakima", "bellingham", "vancouver, wa",
				// Oregon
				"portland", "oregon", ", or", "eugene", "salem", "bend", "corvallis",
				"beaverton", "hillsboro", "gresham", "medford",
				// British Columbia
				"vancouver", "british columbia", ", bc", "victoria", "burnaby",
				"surrey", "richmond", "kelowna", "vancouver, bc",
				// Region names
				"pacific northwest", "pnw", "puget sound", "cascadia",
			},
			AIKeywords: []string{
				"artificial intelligence", "machine learning", "deep learning",
				"ai ", " ai", "ai/ml", "ml ", " ml",
				"neural network", "computer vision", "nlp",
				"natural language processing", "natural language",
				"llm", "large language model", "gpt", "transformer",
				"generative ai", "gen ai", "genai",
				"chatgpt", "claude", "anthropic", "openai",
				"langchain", "hugging face", "huggingface",
				"data science", "data scientist", "ml engineer",
				"machine learning engineer", "ai engineer",
				"ai researcher", "ml researcher", "research scientist",
				"reinforcement learning",
				"speech recognition", "recommendation system",
				"predictive model", "tensorflow", "pytorch",
			},
		},
		Scan: ScanConfig{
			DormantDays:         60,
			DormantMinWarmth:    40,
			PromiseLookbackDays: 90,
			PromisePatterns: []string{
				`\bi'?ll\b`,
				`\bi will\b`,
				`\blet me\b`,
				`\bi'?m going to\b`,
				`\bwill send\b`,
				`\bwill share\b`,
				`\bwill get back\b`,
				`\bwill follow up\b`,
				`\bwill reach out\b`,
				`\bwill connect you\b`,
				`\bwill introduce\b`,
				`\bwill check\b`,
				`\bwill look into\b`,
			},
			QuestionLookbackDays: 30,
			ShallowQuestions: []string{
				`how are you\?`,
				`how's it going\?`,
				`what's up\?`,
				`how have you been\?`,
				`right\?`,
				`you know\?`,
				`isn't it\?`,
				`don't you think\?`,
			},
			MinQuestionLen:   10,
			WaitingMinWarmth: 10,
			DetailMaxLen:     200,
		},
		Ranking: RankingConfig{
			WarmthWeight:   0.40,
			SegmentWeight:  0.25,
			UrgencyWeight:  0.35,
			SegmentPoints:  30,
			SegmentCap:     90,
			JobTargetBonus: 10,
			Urgency: map[model.Hook]int{
				model.HookTheyWaiting:        100,
				model.HookQuestionUnanswered: 90,
				model.HookPromiseMade:        70,
				model.HookDormant:            40,
			},
			HookDescriptions: map[model.Hook]string{
				model.HookTheyWaiting:        "They're waiting for your reply",
				model.HookQuestionUnanswered: "They asked a question you haven't answered",
				model.HookPromiseMade:        "You made a promise you haven't fulfilled",
				model.HookDormant:            "Warm relationship gone quiet, good time to reconnect",
			},
			SegmentDescriptions: map[model.Segment]string{
				model.SegmentMujerTech: "Part of MujerTech network",
				model.SegmentCascadia:  "In the Cascadia AI community",
				model.SegmentJobTarget: "Works at a target company",
			},
			StrongWarmth: 70,
			WarmWarmth:   40,
		},
	}
}

// Load reads a YAML file over the defaults. Missing keys keep their default
// values; an absent path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
