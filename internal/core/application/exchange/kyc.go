package exchange

import "strings"

var kycRatings = map[string]string{
	"A": "No KYC, no questions asked",
	"B": "No KYC unless the transaction is flagged by an automated system",
	"C": "May ask for KYC on suspicious transactions, refunds allowed",
	"D": "May ask for KYC on any transaction, funds can be held",
}

// KYCRatingDescription returns the meaning of a provider KYC rating.
func KYCRatingDescription(rating string) string {
	if d, ok := kycRatings[strings.ToUpper(strings.TrimSpace(rating))]; ok {
		return d
	}
	return "Unknown KYC policy"
}
