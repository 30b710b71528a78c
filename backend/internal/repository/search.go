package repository

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applyEmployeeSearch 按关键字过滤别名为 alias 的员工表
// 纯数字按员工编号精确匹配，其余按名或姓忽略大小写模糊匹配
// 关键字不可能命中时 ok 为 false：数字超出编号范围，或不是合法 UTF-8（Postgres 会直接报错）
func applyEmployeeSearch(db *gorm.DB, search, alias string) (_ *gorm.DB, ok bool) {
	search = strings.TrimSpace(search)
	if search == "" {
		return db, true
	}
	if !utf8.ValidString(search) {
		return db, false
	}

	if isDigits(search) {
		id, err := strconv.ParseInt(search, 10, 32)
		if err != nil {
			return db, false
		}
		return db.Where(alias+".employee_id = ?", int32(id)), true
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
	return db.Where(
		"(LOWER("+alias+".first_name) LIKE ? OR LOWER("+alias+".last_name) LIKE ?)",
		pattern, pattern,
	), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
