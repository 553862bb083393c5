package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/ohmynofan/honeygain-pot-bot/internal/domain/reward"
	"github.com/ohmynofan/honeygain-pot-bot/internal/locator"
	"gopkg.in/yaml.v3"
)

// Profile is the page knowledge of one dashboard layout. Script variants differ only here.
type Profile struct {
	Balance   BalanceProfile   `yaml:"balance"`
	Countdown CountdownProfile `yaml:"countdown"`
	Claim     ClaimProfile     `yaml:"claim"`
	Login     LoginProfile     `yaml:"login"`
}

type BalanceProfile struct {
	Locators    []locator.Family `yaml:"locators"`
	ScanTags    string           `yaml:"scan_tags"`
	ScanMarker  string           `yaml:"scan_marker"`
	ScanTimeout time.Duration    `yaml:"scan_timeout"`
	Generic     []string         `yaml:"generic"`
}

type CountdownProfile struct {
	Family locator.Family `yaml:"family"`
	Label  string         `yaml:"label"`
}

// ClaimProfile markers double as the label allow-list: a control is clicked only when its text matches one.
type ClaimProfile struct {
	Family locator.Family `yaml:"family"`
}

type LoginProfile struct {
	Interstitial string `yaml:"interstitial"`
	Email        string `yaml:"email"`
	Password     string `yaml:"password"`
	Submit       string `yaml:"submit"`
	NoJSMarker   string `yaml:"no_js_marker"`
}

const dashboardSlot = "#root > div.sc-cSzYSJ.hZVuLe > div.sc-gEtfcr.jNBTJR > div > main > div > div > div:nth-child({n})"

func DefaultProfile() Profile {
	return Profile{
		Balance: BalanceProfile{
			Locators: []locator.Family{
				{
					Name:       "balance",
					Template:   dashboardSlot + " > div > div > div > div span",
					Candidates: []int{2},
					Timeout:    15 * time.Second,
				},
				{
					Name:       "balance_legacy",
					Template:   "#root > div.sc-cSzYSJ.hZVuLe > div.sc-jwpOCX.cDWKqV > div > main > div > div > div:nth-child({n}) > div > div > div > div > div.sc-blHHSb.sc-gnElHG.hJDEkH.XGcis",
					Candidates: []int{1, 2},
					Markers:    []string{"Current Balance"},
					Timeout:    5 * time.Second,
				},
			},
			ScanTags:    "div, span, p",
			ScanMarker:  "Current Balance",
			ScanTimeout: 15 * time.Second,
			Generic:     []string{".sc-bdnyFh.bcYZov"},
		},
		Countdown: CountdownProfile{
			Family: locator.Family{
				Name:       "countdown",
				Template:   dashboardSlot + " > div > div > div > div.sc-fAUdSK.fFFaNF > div > div > div",
				Candidates: []int{5, 4, 6},
				Markers:    []string{reward.DefaultCountdownLabel},
				Timeout:    5 * time.Second,
			},
			Label: reward.DefaultCountdownLabel,
		},
		Claim: ClaimProfile{
			Family: locator.Family{
				Name:       "claim",
				Template:   dashboardSlot + " > div > div > div > div.sc-fAUdSK.fFFaNF > div > div > button",
				Candidates: []int{5, 4, 6},
				Markers:    append([]string(nil), reward.DefaultClaimLabels...),
				Timeout:    5 * time.Second,
			},
		},
		Login: LoginProfile{
			Interstitial: ".sc-kLhKbu.cRDTkV",
			Email:        "#email",
			Password:     "#password",
			Submit:       ".sc-kLhKbu.dEXYZj.hg-login-with-email",
			NoJSMarker:   "Your browser does not support JavaScript!",
		},
	}
}

// LoadProfile overlays the YAML file at path on DefaultProfile. A missing file yields the
// built-in profile and fs.ErrNotExist so the caller can log it.
func LoadProfile(path string) (Profile, error) {
	profile := DefaultProfile()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return profile, err
		}
		return Profile{}, fmt.Errorf("failed to read locator profile: %w", err)
	}
	if err := yaml.Unmarshal(b, &profile); err != nil {
		return Profile{}, fmt.Errorf("failed to parse locator profile %s: %w", path, err)
	}
	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (p Profile) Validate() error {
	families := append([]locator.Family{p.Countdown.Family, p.Claim.Family}, p.Balance.Locators...)
	for _, f := range families {
		if strings.TrimSpace(f.Template) == "" {
			return fmt.Errorf("locator family %q has no template", f.Name)
		}
		if strings.Contains(f.Template, locator.Placeholder) && len(f.Candidates) == 0 {
			return fmt.Errorf("locator family %q has a {n} template but no candidates", f.Name)
		}
		if len(f.Candidates) > 1 && len(f.Markers) == 0 {
			return fmt.Errorf("locator family %q probes several slots so it needs markers", f.Name)
		}
	}
	if len(p.Claim.Family.Markers) == 0 {
		return errors.New("claim family needs at least one allowed label")
	}
	if p.Login.Email == "" || p.Login.Password == "" || p.Login.Submit == "" {
		return errors.New("login selectors are incomplete")
	}
	return nil
}
