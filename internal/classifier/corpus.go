package classifier

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// TrainingExample is a single labelled text used to fit the model.
type TrainingExample struct {
	Text  string `yaml:"text" json:"text"`
	Label Label  `yaml:"label" json:"label"`
}

var defaultCorpus = [...]TrainingExample{
	{"Free entry in 2 a wkly comp to win FA Cup final tkts 21st May 2005.", LabelSpam},
	{"Nah I don't think he goes to usf, he lives around here though", LabelHam},
	{"FreeMsg Hey there darling it's been 3 week's now and no word back!", LabelSpam},
	{"Even my brother is not like to speak with me. They treat me like aids patent.", LabelHam},
	{"WINNER!! As a valued network customer you have been selected to receivea £900 prize reward!", LabelSpam},
	{"I'm gonna be home soon and i don't want to talk about this stuff anymore tonight, k?", LabelHam},
	{"Had your mobile 11 months or more? U R entitled to Update to the latest colour mobiles with camera for Free!", LabelSpam},
	{"Okay lar... Joking wif u oni...", LabelHam},
	{"URGENT! You have won a 1 week FREE membership in our £100,000 Prize Jackpot!", LabelSpam},
	{"Fine if that's the way u feel. That's the way its gota b", LabelHam},
}

// DefaultCorpus returns a copy of the built-in ten example training set.
func DefaultCorpus() []TrainingExample {
	out := make([]TrainingExample, len(defaultCorpus))
	copy(out, defaultCorpus[:])
	return out
}

// LoadCorpus reads a YAML list of training examples:
//
//   - text: "WINNER!! ..."
//     label: spam
//
// Labels are checked later by New.
func LoadCorpus(r io.Reader) ([]TrainingExample, error) {
	var examples []TrainingExample
	if err := yaml.NewDecoder(r).Decode(&examples); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}
	return examples, nil
}
