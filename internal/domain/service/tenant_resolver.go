package service

import (
	"regexp"
	"strings"
)

const institutionalSuffix = ".edu"

var marketplaceLabel = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// ResolveMarketplace derives the marketplace id from an institutional e-mail
// address: the domain label immediately before ".edu", lower-cased.
func ResolveMarketplace(email string) (string, bool) {
	_, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "", false
	}
	domain = strings.ToLower(domain)
	if !strings.HasSuffix(domain, institutionalSuffix) {
		return "", false
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return "", false
	}
	label := labels[len(labels)-2]
	if !marketplaceLabel.MatchString(label) {
		return "", false
	}
	return label, true
}
