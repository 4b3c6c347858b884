package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"authgate/internal/config"
)

const (
	kakaoAuthURL     = "https://kauth.kakao.com/oauth/authorize"
	kakaoTokenURL    = "https://kauth.kakao.com/oauth/token"
	kakaoUserInfoURL = "https://kapi.kakao.com/v2/user/me"
)

// KakaoProvider handles Kakao OAuth 2.0 login. Kakao is not an OIDC
// provider here: identity comes from its user-info API called with the
// obtained access token.
type KakaoProvider struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// kakaoUser mirrors the kapi.kakao.com/v2/user/me response.
type kakaoUser struct {
	ID      int64 `json:"id"`
	Account struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

// NewKakaoProvider builds a Kakao provider. The client secret is
// optional; Kakao only requires it when enabled for the app.
func NewKakaoProvider(cfg config.ProviderConfig) *KakaoProvider {
	return &KakaoProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   kakaoAuthURL,
				TokenURL:  kakaoTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{"profile_nickname", "profile_image", "account_email"},
		},
		userInfoURL: kakaoUserInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name implements Provider.
func (k *KakaoProvider) Name() string { return NameKakao }

// AuthURL generates the Kakao hosted-login URL with the given state.
func (k *KakaoProvider) AuthURL(state string) string {
	return k.config.AuthCodeURL(state)
}

// Exchange trades the authorization code for an access token and maps
// the user-info response into an Identity.
func (k *KakaoProvider) Exchange(ctx context.Context, code string) (Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, k.httpClient)
	token, err := k.config.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: kakao token exchange: %v", ErrExchangeFailed, err)
	}

	user, err := k.fetchUser(ctx, token.AccessToken)
	if err != nil {
		return Identity{}, err
	}
	if user.ID == 0 {
		return Identity{}, fmt.Errorf("%w: kakao user has no id", ErrTokenVerificationFailed)
	}

	sub := strconv.FormatInt(user.ID, 10)
	email := user.Account.Email
	if email == "" {
		// Kakao does not guarantee an email; substitute a placeholder
		// derived from the stable subject so uniqueness constraints hold.
		email = fmt.Sprintf("kakao_%s@no-email.kakao", sub)
	}

	return Identity{
		Provider:    NameKakao,
		Subject:     sub,
		Email:       email,
		DisplayName: user.Account.Profile.Nickname,
		AvatarURL:   user.Account.Profile.ProfileImageURL,
	}, nil
}

func (k *KakaoProvider) fetchUser(ctx context.Context, accessToken string) (kakaoUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.userInfoURL, nil)
	if err != nil {
		return kakaoUser{}, fmt.Errorf("%w: build user-info request: %v", ErrExchangeFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return kakaoUser{}, fmt.Errorf("%w: kakao user-info: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return kakaoUser{}, fmt.Errorf("%w: kakao user-info returned %d", ErrExchangeFailed, resp.StatusCode)
	}

	var user kakaoUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return kakaoUser{}, fmt.Errorf("%w: decode kakao user-info: %v", ErrExchangeFailed, err)
	}
	return user, nil
}
