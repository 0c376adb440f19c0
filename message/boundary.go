package message

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/zostay/go-pstmail/item"
)

// Boundary token parts. An outer boundary looks like
// --boundary-PST-iamunique-1298498081_-_- and the alternative boundary of the
// same message is the outer one with AltPrefix in front.
const (
	BoundaryPrefix = "--boundary-PST-iamunique-"
	BoundarySuffix = "_-_-"
	AltPrefix      = "alt-"
)

var (
	nonceMu  sync.Mutex
	nonceSrc = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// SeedBoundaries reseeds the random source used for boundaries and temporary
// attachment names. It is called once at startup, or by tests wanting
// repeatable output.
func SeedBoundaries(seed int64) {
	nonceMu.Lock()
	defer nonceMu.Unlock()
	nonceSrc = rand.New(rand.NewSource(seed))
}

// Nonce returns the next non-negative random number from the process-wide
// source.
func Nonce() int32 {
	nonceMu.Lock()
	defer nonceMu.Unlock()
	return nonceSrc.Int31()
}

// Boundaries holds the boundaries of one message. Alt is empty unless the
// message has both a plain and an HTML body.
type Boundaries struct {
	Outer string
	Alt   string
}

// HasAlt returns true when the bodies nest under multipart/alternative.
func (b Boundaries) HasAlt() bool {
	return b.Alt != ""
}

// Body returns the boundary the body parts are written under.
func (b Boundaries) Body() string {
	if b.HasAlt() {
		return b.Alt
	}
	return b.Outer
}

// AllocateBoundaries returns fresh boundaries for it.
func AllocateBoundaries(it *item.Item) Boundaries {
	b := Boundaries{
		Outer: fmt.Sprintf("%s%d%s", BoundaryPrefix, Nonce(), BoundarySuffix),
	}

	if it.Body.IsSet() && it.Email != nil && it.Email.HTMLBody.IsSet() {
		b.Alt = AltPrefix + b.Outer
	}

	return b
}

// OuterContentType returns the Content-Type field body for the top of the
// message: multipart/report for reports, multipart/mixed for anything else.
func OuterContentType(t item.Type, reportType, boundary string) string {
	if t == item.TypeReport {
		return fmt.Sprintf("multipart/report; report-type=%s;\n\tboundary=\"%s\"", reportType, boundary)
	}
	return fmt.Sprintf("multipart/mixed;\n\tboundary=\"%s\"", boundary)
}
