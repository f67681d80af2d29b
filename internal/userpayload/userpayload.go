package userpayload

import (
	"net/http"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

// ProfilePayload is how a user appears inside other resources.
type ProfilePayload struct {
	*model.Profile
}

func NewProfilePayload(p *model.Profile) *ProfilePayload {
	return &ProfilePayload{Profile: p}
}

func (u *ProfilePayload) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
