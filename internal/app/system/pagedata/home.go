// internal/app/system/pagedata/home.go
package pagedata

import (
	"github.com/dalemusser/elaspodem/internal/app/system/homeforms"
	"github.com/dalemusser/elaspodem/internal/domain/models"
	"go.uber.org/zap"
)

// HomeController edits the home page document.
type HomeController = Controller[homeforms.HomeForms]

// HomeConfig binds the home page's forms to the controller.
func HomeConfig() Config[homeforms.HomeForms] {
	return Config[homeforms.HomeForms]{
		Collection:     models.PagesCollection,
		Document:       models.PageIDHome,
		PageName:       "home",
		Sections:       homeforms.SectionNames(),
		SeparateAll:    homeforms.SeparateAllSections,
		Defaults:       homeforms.CreateDefaultHomeForms,
		Clone:          homeforms.HomeForms.Clone,
		CombineSection: homeforms.CombineSection,
		ResetSection:   homeforms.ResetSection,
	}
}

// NewHome builds the home page controller. onSaved may be nil.
func NewHome(store DocumentStore, logger *zap.Logger, onSaved OnSavedFunc, opts ...Option) (*HomeController, error) {
	cfg := HomeConfig()
	cfg.OnSaved = onSaved
	return New(cfg, store, logger, opts...)
}
