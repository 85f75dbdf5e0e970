package query

import (
	"encoding/base64"
	"fmt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"net/url"
	"strconv"
	"strings"
	"virtual-hospital/app/server/constants"
)

// Condition 过滤表达式的叶子节点：列名、SQL 操作符与参数值
type Condition struct {
	Column   string
	Operator string
	Value    string
}

// Filter 是 AND-of-ORs 结构的谓词：组之间取与，组内条件取或
type Filter struct {
	Groups [][]Condition
}

// 操作符按照匹配优先级排列，长操作符在前，避免 >= 被拆成 > 和 =
var operators = []string{"#@", "=@", "!@", "==", "!=", ">=", "<=", ">", "<"}

// ParseCondition 解析形如 <column><operator><value> 的单个条件。
// 没有任何可识别操作符的条件会返回 nil ，由调用方直接丢弃（宽松解析）。
func ParseCondition(term string) *Condition {
	for _, op := range operators {
		idx := strings.Index(term, op)
		if idx <= 0 {
			// 找不到操作符，或者操作符之前没有列名
			continue
		}

		column := term[:idx]
		value := term[idx+len(op):]

		switch op {
		case "#@": // 包含，区分大小写
			return &Condition{Column: column, Operator: "LIKE", Value: "%" + value + "%"}
		case "=@": // 包含，不区分大小写
			return &Condition{Column: column, Operator: "LIKE", Value: strings.ToLower("%" + value + "%")}
		case "!@": // 不包含
			return &Condition{Column: column, Operator: "NOT LIKE", Value: "%" + value + "%"}
		case "==":
			return &Condition{Column: column, Operator: "=", Value: value}
		default: // != >= <= > <
			return &Condition{Column: column, Operator: op, Value: value}
		}
	}

	return nil
}

// Parse 还原经过 URI 转义和 base64 编码的过滤表达式。
// 原始文本的结构：AND 组以 ';' 分隔，组内的 OR 条件以 '|' 分隔。
func Parse(encoded string) (*Filter, error) {
	filter := &Filter{}
	if encoded == "" {
		return filter, nil
	}

	// URI 转义通常已经被 HTTP 层还原，先按原文直接解码；
	// 不能抢先反转义，否则 base64 字母表里的 '+' 会被还原成空格
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		unescaped, uerr := url.QueryUnescape(encoded)
		if uerr != nil {
			return nil, fmt.Errorf("decode filter failed: %w", err)
		}
		if raw, err = base64.StdEncoding.DecodeString(unescaped); err != nil {
			return nil, fmt.Errorf("decode filter failed: %w", err)
		}
	}

	for _, andPart := range strings.Split(string(raw), ";") {
		var group []Condition
		for _, orPart := range strings.Split(andPart, "|") {
			if cond := ParseCondition(orPart); cond != nil {
				group = append(group, *cond)
			}
		}
		if len(group) > 0 {
			filter.Groups = append(filter.Groups, group)
		}
	}

	return filter, nil
}

// expression 把单个条件翻译成参数化的 gorm 表达式，列名由方言负责转义
func (c *Condition) expression() clause.Expression {
	column := clause.Column{Name: c.Column}

	switch c.Operator {
	case "LIKE":
		return clause.Like{Column: column, Value: c.Value}
	case "NOT LIKE":
		return clause.Not(clause.Like{Column: column, Value: c.Value})
	case "=":
		return clause.Eq{Column: column, Value: c.Value}
	case "!=":
		return clause.Neq{Column: column, Value: c.Value}
	case ">":
		return clause.Gt{Column: column, Value: c.Value}
	case ">=":
		return clause.Gte{Column: column, Value: c.Value}
	case "<":
		return clause.Lt{Column: column, Value: c.Value}
	case "<=":
		return clause.Lte{Column: column, Value: c.Value}
	}

	return nil
}

// Apply 把谓词以参数化条件的方式追加到查询上，不做任何字符串拼接
func (f *Filter) Apply(tx *gorm.DB) *gorm.DB {
	for _, group := range f.Groups {
		exprs := make([]clause.Expression, 0, len(group))
		for i := range group {
			if expr := group[i].expression(); expr != nil {
				exprs = append(exprs, expr)
			}
		}
		// 单条件的组不能包 clause.Or ，否则 gorm 会把它和前一组用 OR 连接
		if len(exprs) == 1 {
			tx = tx.Where(exprs[0])
		} else if len(exprs) > 1 {
			tx = tx.Where(clause.Or(exprs...))
		}
	}

	return tx
}

// Sort 排序参数：列名加可选的 '-' 前缀表示倒序
type Sort struct {
	Column string
	Desc   bool
}

func ParseSort(sort string) *Sort {
	if sort == "" {
		return nil
	}
	if strings.HasPrefix(sort, "-") {
		return &Sort{Column: sort[1:], Desc: true}
	}
	return &Sort{Column: sort}
}

func (s *Sort) Apply(tx *gorm.DB) *gorm.DB {
	return tx.Order(clause.OrderByColumn{
		Column: clause.Column{Name: s.Column},
		Desc:   s.Desc,
	})
}

// Pagination 页码对外从 1 开始，对内换算成从 0 开始的偏移
type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination 解析分页参数，缺省或者不是数字时回退到默认值
func ParsePagination(page string, limit string) Pagination {
	p := Pagination{
		Page:  constants.DefaultPage,
		Limit: constants.DefaultLimit,
	}

	if parsed, err := strconv.Atoi(page); err == nil && parsed >= 1 {
		p.Page = parsed
	}
	if parsed, err := strconv.Atoi(limit); err == nil && parsed > 0 {
		p.Limit = parsed
	}

	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
