package utils

import (
	"encoding/hex"
	"strings"

	"github.com/vuuvv/errors"
)

// ParseFrameLine 将一行文本解析为帧数据
//
// 支持以下格式:
//   - h'0011aa' 或 x'0011aa': 十六进制
//   - s'abc': 原样字符串
//   - 00 11 aa / 00:11:aa / 0x0011aa: 十六进制, 空白与冒号被忽略
func ParseFrameLine(line string) ([]byte, error) {
	line = strings.TrimSpace(line)

	typeID := "h"
	data := line
	// 检查是否符合 T'xxx' 格式
	if len(line) >= 3 && line[1] == '\'' && line[len(line)-1] == '\'' {
		typeID = strings.ToLower(line[:1])
		data = line[2 : len(line)-1]
	}

	switch typeID {
	case "s":
		return []byte(data), nil
	case "x", "h":
		hexStr := strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\t', ':', '-':
				return -1
			}
			return r
		}, data)
		hexStr = strings.TrimPrefix(strings.TrimPrefix(hexStr, "0x"), "0X")
		if len(hexStr)%2 != 0 {
			return nil, errors.Errorf("invalid hex frame '%s': odd number of digits", data)
		}
		value, err := hex.DecodeString(hexStr)
		if err != nil {
			return nil, errors.Errorf("invalid hex frame '%s': %v", data, err)
		}
		return value, nil
	}
	return nil, errors.Errorf("unrecognized type identifier: %s. Expected x, h, or s.", typeID)
}

// IsCommentLine 空行与 # 开头的行不包含帧
func IsCommentLine(line string) bool {
	line = strings.TrimSpace(line)
	return line == "" || strings.HasPrefix(line, "#")
}
