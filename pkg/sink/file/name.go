package file

import (
	"math/rand"
	"regexp"
	"strconv"
	"time"
)

// naming regexp
var (
	reDate   = regexp.MustCompile(`%date:(.*?)%`)
	reSource = regexp.MustCompile(`%source%`)
	reRand   = regexp.MustCompile(`%rand:(\d+)%`)
)

// parseName expands the name template:
// %date:<go time layout>%, %source% and %rand:<length>%.
func parseName(name, source string, now time.Time) (out string) {
	out = reDate.ReplaceAllStringFunc(name, func(s string) string {
		return now.Format(reDate.FindStringSubmatch(s)[1])
	})
	out = reRand.ReplaceAllStringFunc(out, func(s string) string {
		return random(reRand.FindStringSubmatch(s)[1])
	})
	return reSource.ReplaceAllString(out, source)
}

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func random(num string) string {
	n, err := strconv.Atoi(num)
	if err != nil {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = letterBytes[rand.Intn(len(letterBytes))]
	}
	return string(b)
}
