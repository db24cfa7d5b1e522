package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex plan_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

// initializeSID initializes the shortid generator once
func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortIDWithPrefix returns a short upper-cased ID with a prefix,
// capped at 12 characters, e.g. `CPN4XYZ12A8Q`. Used for human-facing
// coupon codes.
func GenerateShortIDWithPrefix(prefix string) string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return ""
	}
	id = strings.ReplaceAll(id, "-", "")

	availableLen := 12 - len(prefix)
	if availableLen <= 0 {
		return ""
	}

	if len(id) > availableLen {
		id = id[:availableLen]
	}

	return strings.ToUpper(fmt.Sprintf("%s%s", prefix, id))
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_PAYMENT_PLAN     = "plan"
	UUID_PREFIX_INSTALLMENT_PLAN = "inst"
	UUID_PREFIX_COUPON           = "cpn"
	UUID_PREFIX_REFERRAL_PROGRAM = "refp"
	UUID_PREFIX_REFERRAL         = "ref"
	UUID_PREFIX_REFERRER_TIER    = "tier"
	UUID_PREFIX_COURSE           = "course"
	UUID_PREFIX_SESSION          = "sess"
	UUID_PREFIX_LEVEL            = "level"
)

const (
	SHORT_ID_PREFIX_COUPON_CODE = "CPN"
)
