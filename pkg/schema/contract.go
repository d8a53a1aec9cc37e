package schema

import (
	"fmt"
	"strings"
	"time"
)

const perpetualSuffix = "-PERP"

// 期货月份代码 F..Z 对应 1..12 月
var monthCodes = map[byte]time.Month{
	'F': time.January,
	'G': time.February,
	'H': time.March,
	'J': time.April,
	'K': time.May,
	'M': time.June,
	'N': time.July,
	'Q': time.August,
	'U': time.September,
	'V': time.October,
	'X': time.November,
	'Z': time.December,
}

// ContractCode 表示一个解析后的合约代码
type ContractCode struct {
	Code       string     `json:"contract_code"` // 交易所格式的合约代码，如 BTCZ18
	Underlying string     `json:"underlying"`    // 标的，如 BTC
	Perpetual  bool       `json:"perpetual"`     // 是否为永续合约
	Month      time.Month `json:"month,omitempty"`
	Year       int        `json:"year,omitempty"`
}

// String 返回交易所格式的合约代码
func (c ContractCode) String() string {
	return c.Code
}

// ExpiryMonth 返回交割月份的第一天（UTC），永续合约返回零值
func (c ContractCode) ExpiryMonth() time.Time {
	if c.Perpetual {
		return time.Time{}
	}
	return time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, time.UTC)
}

// ParseContractCode 解析合约代码
// 格式说明：
// - 交割合约: [标的][月份代码][两位年份]，如 BTCZ18、ETHH19
// - 永续合约: [标的]-PERP，如 BTC-PERP
func ParseContractCode(code string) (ContractCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ContractCode{}, fmt.Errorf("contract code cannot be empty")
	}

	if strings.HasSuffix(code, perpetualSuffix) {
		underlying := strings.TrimSuffix(code, perpetualSuffix)
		if !isAlpha(underlying) {
			return ContractCode{}, fmt.Errorf("invalid perpetual contract code: %s", code)
		}
		return ContractCode{Code: code, Underlying: underlying, Perpetual: true}, nil
	}

	// 至少需要 1 位标的 + 1 位月份 + 2 位年份
	if len(code) < 4 {
		return ContractCode{}, fmt.Errorf("invalid contract code: %s", code)
	}

	underlying := code[:len(code)-3]
	month, ok := monthCodes[code[len(code)-3]]
	if !ok {
		return ContractCode{}, fmt.Errorf("invalid month code %q in contract code: %s", code[len(code)-3], code)
	}
	yy := code[len(code)-2:]
	if !isDigit(yy[0]) || !isDigit(yy[1]) || !isAlpha(underlying) {
		return ContractCode{}, fmt.Errorf("invalid contract code: %s", code)
	}

	return ContractCode{
		Code:       code,
		Underlying: underlying,
		Month:      month,
		Year:       2000 + int(yy[0]-'0')*10 + int(yy[1]-'0'),
	}, nil
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
