// Package useragent synthesizes a coherent desktop/mobile User-Agent string
// plus matching sec-ch-ua client-hint headers. No example repo in the pack
// generates UA+client-hints together (see DESIGN.md); this is a small,
// self-contained stdlib component.
package useragent

import (
	"fmt"
	"math/rand"
	"strings"
)

// platform describes one synthesizable OS/browser combination.
type platform struct {
	os          string
	osVersion   string
	chromeMajor int
	mobile      bool
	secChUAOS   string
}

var platforms = []platform{
	{os: "Windows NT 10.0; Win64; x64", osVersion: "10.0", chromeMajor: 124, secChUAOS: "Windows"},
	{os: "Macintosh; Intel Mac OS X 10_15_7", osVersion: "10_15_7", chromeMajor: 124, secChUAOS: "macOS"},
	{os: "X11; Linux x86_64", osVersion: "", chromeMajor: 123, secChUAOS: "Linux"},
	{os: "Linux; Android 13; Pixel 7", osVersion: "13", chromeMajor: 124, mobile: true, secChUAOS: "Android"},
}

// Identity is a coherent UA + client-hint header set.
type Identity struct {
	UserAgent      string
	SecCHUA        string
	SecCHUAMobile  string
	SecCHUAPlatform string
}

// Headers returns the identity as an http-header-ready map, merge-able into
// a browser context's extra headers.
func (id Identity) Headers() map[string]string {
	return map[string]string{
		"User-Agent":         id.UserAgent,
		"sec-ch-ua":          id.SecCHUA,
		"sec-ch-ua-mobile":   id.SecCHUAMobile,
		"sec-ch-ua-platform": id.SecCHUAPlatform,
	}
}

// Random synthesizes a coherent desktop or mobile Chrome identity.
func Random() Identity {
	p := platforms[rand.Intn(len(platforms))]
	return fromPlatform(p)
}

// Desktop synthesizes a coherent desktop (non-mobile) identity.
func Desktop() Identity {
	for {
		p := platforms[rand.Intn(len(platforms))]
		if !p.mobile {
			return fromPlatform(p)
		}
	}
}

func fromPlatform(p platform) Identity {
	ua := fmt.Sprintf(
		"Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.0.0 Safari/537.36",
		p.os, p.chromeMajor,
	)
	if p.mobile {
		ua = fmt.Sprintf(
			"Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.0.0 Mobile Safari/537.36",
			p.os, p.chromeMajor,
		)
	}

	brands := []string{
		fmt.Sprintf(`"Chromium";v="%d"`, p.chromeMajor),
		fmt.Sprintf(`"Google Chrome";v="%d"`, p.chromeMajor),
		`"Not.A/Brand";v="99"`,
	}

	mobileFlag := "?0"
	if p.mobile {
		mobileFlag = "?1"
	}

	return Identity{
		UserAgent:       ua,
		SecCHUA:         strings.Join(brands, ", "),
		SecCHUAMobile:   mobileFlag,
		SecCHUAPlatform: fmt.Sprintf("%q", p.secChUAOS),
	}
}
