package file

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/logger"
)

// lexiconFile is the on-disk shape of the region lexicon.
type lexiconFile struct {
	Regions []string `json:"regiones_nombres"`
}

// LoadLexicon reads the region names from a JSON file.
// A missing file yields an empty lexicon, so every chunk is tagged Unknown.
func LoadLexicon(path string) (domain.RegionLexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("region lexicon %s not found, regions will be %s", path, domain.UnknownRegion)
			return domain.NewRegionLexicon(nil), nil
		}
		return domain.RegionLexicon{}, fmt.Errorf("reading lexicon: %w", err)
	}

	var f lexiconFile
	if err := json.Unmarshal(data, &f); err != nil {
		return domain.RegionLexicon{}, fmt.Errorf("%w: parsing lexicon %s: %w", domain.ErrInvalidInput, path, err)
	}

	lexicon := domain.NewRegionLexicon(f.Regions)
	logger.Debug("loaded %d regions from %s", lexicon.Len(), path)
	return lexicon, nil
}
