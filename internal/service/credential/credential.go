package credential

import (
	"context"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"stream_tab_watcher/internal/models"
	"stream_tab_watcher/internal/storage"
)

// CredentialService owns the persisted login list. Every mutation goes
// through storage.Set so the scheduler (and any other subscriber) observes
// login changes the same way it observes preference edits.
type CredentialService struct {
	synced storage.Storage
}

func NewCredentialService(synced storage.Storage) *CredentialService {
	return &CredentialService{
		synced: synced,
	}
}

func (cs *CredentialService) Logins(ctx context.Context) (logins []models.Login, err error) {
	values, err := cs.synced.Get(ctx, storage.KeyLogins)
	if err != nil {
		return nil, errors.Wrap(err, "Get")
	}

	raw, ok := values[storage.KeyLogins]
	if !ok {
		return nil, nil
	}

	if err = jsoniter.Unmarshal(raw, &logins); err != nil {
		return nil, errors.Wrap(err, "Unmarshal")
	}

	return logins, nil
}

func (cs *CredentialService) LoginByType(ctx context.Context, accountType models.AccountType) (*models.Login, error) {
	logins, err := cs.Logins(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "Logins")
	}

	return models.FindLogin(logins, accountType), nil
}

// SetLogin replaces any existing login of the same account type.
func (cs *CredentialService) SetLogin(ctx context.Context, login models.Login) error {
	logins, err := cs.Logins(ctx)
	if err != nil {
		return errors.Wrap(err, "Logins")
	}

	return cs.persist(ctx, models.ReplaceLogin(logins, login))
}

// Logout drops exactly the named account type. Called both by the user
// and by the aggregator when a platform reports the token dead.
func (cs *CredentialService) Logout(ctx context.Context, accountType models.AccountType) error {
	logins, err := cs.Logins(ctx)
	if err != nil {
		return errors.Wrap(err, "Logins")
	}

	if models.FindLogin(logins, accountType) == nil {
		return nil
	}

	logrus.Infof("logging out account type %s", accountType)

	return cs.persist(ctx, models.RemoveLogin(logins, accountType))
}

// HasAnyUsableLogin reports whether any login grants source access.
// YOUTUBE_OAUTH_CREDENTIALS alone is only a pre-login override, it cannot
// fetch anything by itself.
func (cs *CredentialService) HasAnyUsableLogin(ctx context.Context) (bool, error) {
	logins, err := cs.Logins(ctx)
	if err != nil {
		return false, errors.Wrap(err, "Logins")
	}

	for _, login := range logins {
		switch login.Type {
		case models.AccountTypeTwitch,
			models.AccountTypeYouTube,
			models.AccountTypeYouTubeAPIKey,
			models.AccountTypeKick:
			return true, nil
		}
	}

	return false, nil
}

func (cs *CredentialService) persist(ctx context.Context, logins []models.Login) error {
	raw, err := jsoniter.Marshal(logins)
	if err != nil {
		return errors.Wrap(err, "Marshal")
	}

	return errors.Wrap(cs.synced.Set(ctx, map[string]json.RawMessage{
		storage.KeyLogins: raw,
	}), "Set")
}
