package ranker

import (
	"fmt"
	"math"

	"github.com/Gthulhu/smoothtask/domain"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Feature names understood by LinearModel weights.
const (
	FeatureFocused       = "focused"
	FeatureGUI           = "gui"
	FeatureCPUShare      = "cpu_share"
	FeatureAudio         = "audio"
	FeatureTTY           = "tty"
	FeatureRSSGB         = "rss_gb"
	FeatureGame          = "game"
	FeatureBackgroundTag = "background_tag"
	FeatureUserActive    = "user_active"
	FeatureProcessCount  = "process_count"
)

var knownFeatures = map[string]struct{}{
	FeatureFocused: {}, FeatureGUI: {}, FeatureCPUShare: {}, FeatureAudio: {}, FeatureTTY: {},
	FeatureRSSGB: {}, FeatureGame: {}, FeatureBackgroundTag: {}, FeatureUserActive: {}, FeatureProcessCount: {},
}

// LinearModel is a logistic scorer over group features.
type LinearModel struct {
	Name    string             `mapstructure:"name"`
	Bias    float64            `mapstructure:"bias"`
	Weights map[string]float64 `mapstructure:"weights"`
}

// LoadLinearModel reads a model file in any format viper understands (toml, yaml, json).
func LoadLinearModel(path string) (*LinearModel, error) {
	if path == "" {
		return nil, errors.Wrap(domain.ErrModelUnavailable, "no model path configured")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(domain.ErrModelUnavailable, "read model %s: %v", path, err)
	}
	var model LinearModel
	if err := v.Unmarshal(&model); err != nil {
		return nil, errors.Wrapf(domain.ErrModelUnavailable, "decode model %s: %v", path, err)
	}
	if err := model.Validate(); err != nil {
		return nil, errors.Wrapf(err, "model %s", path)
	}
	return &model, nil
}

func (m *LinearModel) Validate() error {
	if len(m.Weights) == 0 {
		return errors.Wrap(domain.ErrModelUnavailable, "model has no weights")
	}
	for name, w := range m.Weights {
		if _, ok := knownFeatures[name]; !ok {
			return errors.Wrapf(domain.ErrModelUnavailable, "unknown feature %q", name)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return errors.Wrapf(domain.ErrModelUnavailable, "weight of %q is not finite", name)
		}
	}
	return nil
}

// Score returns sigmoid(bias + sum of weight * feature), always in (0, 1).
func (m *LinearModel) Score(features map[string]float64) float64 {
	z := m.Bias
	for name, w := range m.Weights {
		z += w * features[name]
	}
	return 1 / (1 + math.Exp(-z))
}

func (m *LinearModel) String() string {
	return fmt.Sprintf("linear(%s, %d weights)", m.Name, len(m.Weights))
}

// LinearRanker ranks groups by a LinearModel score.
type LinearRanker struct {
	model *LinearModel
}

func NewLinearRanker(model *LinearModel) *LinearRanker {
	return &LinearRanker{model: model}
}

func (r *LinearRanker) Rank(appGroups []domain.AppGroupRecord, snapshot *domain.Snapshot) map[string]domain.RankingResult {
	scored := make([]scoredGroup, 0, len(appGroups))
	for i := range appGroups {
		scored = append(scored, scoredGroup{
			id:    appGroups[i].AppGroupID,
			score: r.model.Score(GroupFeatures(&appGroups[i], snapshot)),
		})
	}
	return rankScores(scored)
}

// GroupFeatures extracts the model inputs of one group.
func GroupFeatures(g *domain.AppGroupRecord, snapshot *domain.Snapshot) map[string]float64 {
	background := g.HasTag("updater") || g.HasTag("indexer") || g.HasTag("maintenance")
	f := map[string]float64{
		FeatureFocused:       boolFeature(g.IsFocusedGroup),
		FeatureGUI:           boolFeature(g.HasGUIWindow),
		FeatureCPUShare:      g.CPUShare(),
		FeatureGame:          boolFeature(g.HasTag("game")),
		FeatureProcessCount:  float64(len(g.ProcessIDs)),
		FeatureBackgroundTag: boolFeature(background),
	}
	if g.TotalRSSMB != nil {
		f[FeatureRSSGB] = float64(*g.TotalRSSMB) / 1024
	}
	if snapshot == nil {
		return f
	}
	f[FeatureUserActive] = boolFeature(snapshot.Global.UserActive)
	for _, p := range snapshot.ProcessesOf(g.AppGroupID) {
		if p.IsActiveAudioClient() {
			f[FeatureAudio] = 1
		}
		if p.HasTTY {
			f[FeatureTTY] = 1
		}
	}
	return f
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
