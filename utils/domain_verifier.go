package utils

import (
	"net"
	"regexp"
	"strings"
	"sync"

	"github.com/badoux/checkmail"
	"github.com/likexian/whois"
)

// DomainVerification is the result of checking a company's verification email
type DomainVerification struct {
	Email       string `json:"email"`
	Domain      string `json:"domain"`
	Status      string `json:"status"` // valid, invalid, free_provider, unknown
	Details     string `json:"details"`
	HasMX       bool   `json:"has_mx"`
	Registered  bool   `json:"registered"`
	WHOISRecord string `json:"whois_record,omitempty"`
}

var (
	// Major free email providers; a company verification email must come
	// from the company's own domain, not a personal mailbox
	freeEmailProviders = []string{
		"gmail.com", "yahoo.com", "outlook.com", "hotmail.com",
		"aol.com", "protonmail.com", "icloud.com", "mail.com",
		"yandex.com", "zoho.com", "gmx.com",
	}

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// Domain to MX cache
	mxCache = struct {
		sync.RWMutex
		m map[string][]*net.MX
	}{m: make(map[string][]*net.MX)}
)

// VerifyCompanyDomain checks whether a verification email plausibly belongs
// to a real company domain: syntax, not a free provider, MX records present,
// and the domain registered per WHOIS.
func VerifyCompanyDomain(email string) (*DomainVerification, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	result := &DomainVerification{
		Email:  email,
		Status: "unknown",
	}

	// 1. Basic syntax validation using checkmail
	if err := checkmail.ValidateFormat(email); err != nil {
		result.Status = "invalid"
		result.Details = "Invalid email format: " + err.Error()
		return result, nil
	}
	if !emailRegex.MatchString(email) {
		result.Status = "invalid"
		result.Details = "Invalid email format"
		return result, nil
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		result.Status = "invalid"
		result.Details = "Invalid email format"
		return result, nil
	}
	result.Domain = parts[1]

	// 2. Free providers cannot anchor a company verification
	for _, provider := range freeEmailProviders {
		if result.Domain == provider {
			result.Status = "free_provider"
			result.Details = "Company verification requires an email on the company's own domain"
			return result, nil
		}
	}

	// 3. MX lookup (cached)
	mxRecords, err := lookupMX(result.Domain)
	if err != nil {
		result.Details = "MX lookup failed: " + err.Error()
	}
	result.HasMX = len(mxRecords) > 0

	// 4. WHOIS check that the domain is registered
	whoisRaw, err := whois.Whois(result.Domain)
	if err == nil && whoisRaw != "" && !isUnregistered(whoisRaw) {
		result.Registered = true
		result.WHOISRecord = truncate(whoisRaw, 2000)
	}

	if result.HasMX && result.Registered {
		result.Status = "valid"
		result.Details = "Domain accepts mail and is registered"
	} else if !result.HasMX {
		result.Status = "invalid"
		result.Details = "Domain has no MX records"
	} else {
		result.Status = "invalid"
		result.Details = "Domain does not appear to be registered"
	}

	return result, nil
}

func lookupMX(domain string) ([]*net.MX, error) {
	mxCache.RLock()
	cached, ok := mxCache.m[domain]
	mxCache.RUnlock()
	if ok {
		return cached, nil
	}

	records, err := net.LookupMX(domain)
	if err != nil {
		return nil, err
	}

	mxCache.Lock()
	mxCache.m[domain] = records
	mxCache.Unlock()
	return records, nil
}

func isUnregistered(whoisRaw string) bool {
	lower := strings.ToLower(whoisRaw)
	for _, marker := range []string{
		"no match for",
		"not found",
		"no data found",
		"status: free",
		"domain not found",
	} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
