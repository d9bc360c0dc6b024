package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate") || strings.Contains(s, "unique constraint")
}

const likeEscape = "!"

// containsPattern 转义 LIKE 通配符，配合 ESCAPE '!' 使用
func containsPattern(term string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

// whereContains 多列任一包含（大小写不敏感）
func whereContains(q *gorm.DB, term string, cols ...string) *gorm.DB {
	if term == "" || len(cols) == 0 {
		return q
	}
	pat := containsPattern(term)
	conds := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for _, c := range cols {
		conds = append(conds, "LOWER("+c+") LIKE ? ESCAPE '"+likeEscape+"'")
		args = append(args, pat)
	}
	return q.Where(strings.Join(conds, " OR "), args...)
}
