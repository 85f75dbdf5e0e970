package query

import (
	"encoding/base64"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"net/url"
	"testing"
)

func encodeFilter(raw string) string {
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DryRun: true})
	require.NoError(t, err)

	return db
}

func TestParseConditionOperators(t *testing.T) {
	tests := []struct {
		term     string
		expected *Condition
	}{
		{"first_name#@ali", &Condition{Column: "first_name", Operator: "LIKE", Value: "%ali%"}},
		{"first_name=@ALI", &Condition{Column: "first_name", Operator: "LIKE", Value: "%ali%"}},
		{"first_name!@ali", &Condition{Column: "first_name", Operator: "NOT LIKE", Value: "%ali%"}},
		{"role==admin", &Condition{Column: "role", Operator: "=", Value: "admin"}},
		{"role!=admin", &Condition{Column: "role", Operator: "!=", Value: "admin"}},
		{"age>=18", &Condition{Column: "age", Operator: ">=", Value: "18"}},
		{"age<=18", &Condition{Column: "age", Operator: "<=", Value: "18"}},
		{"age>18", &Condition{Column: "age", Operator: ">", Value: "18"}},
		{"age<18", &Condition{Column: "age", Operator: "<", Value: "18"}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCondition(tt.term))
		})
	}
}

func TestParseConditionPrecedence(t *testing.T) {
	// age>=18 不允许被拆成 age> 和 =18
	cond := ParseCondition("age>=18")
	require.NotNil(t, cond)
	assert.Equal(t, ">=", cond.Operator)
	assert.Equal(t, "18", cond.Value)
}

func TestParseConditionMalformed(t *testing.T) {
	assert.Nil(t, ParseCondition("foo%bar"))
	assert.Nil(t, ParseCondition(""))
	assert.Nil(t, ParseCondition("==admin")) // 缺少列名
}

func TestParseFilter(t *testing.T) {
	filter, err := Parse(encodeFilter("first_name#@ali;role==admin"))
	require.NoError(t, err)

	require.Len(t, filter.Groups, 2)
	require.Len(t, filter.Groups[0], 1)
	require.Len(t, filter.Groups[1], 1)
	assert.Equal(t, Condition{Column: "first_name", Operator: "LIKE", Value: "%ali%"}, filter.Groups[0][0])
	assert.Equal(t, Condition{Column: "role", Operator: "=", Value: "admin"}, filter.Groups[1][0])
}

func TestParseFilterOrGroups(t *testing.T) {
	filter, err := Parse(encodeFilter("role==admin|role==user;age>=18"))
	require.NoError(t, err)

	require.Len(t, filter.Groups, 2)
	assert.Len(t, filter.Groups[0], 2)
	assert.Len(t, filter.Groups[1], 1)
}

func TestParseFilterDropsMalformedTerms(t *testing.T) {
	// 无法识别的条件被静默丢弃，同组其余条件保留
	filter, err := Parse(encodeFilter("foo%bar|role==admin;baz"))
	require.NoError(t, err)

	require.Len(t, filter.Groups, 1)
	require.Len(t, filter.Groups[0], 1)
	assert.Equal(t, "role", filter.Groups[0][0].Column)
}

func TestParseFilterEmpty(t *testing.T) {
	filter, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, filter.Groups)
}

func TestParseFilterEscaped(t *testing.T) {
	filter, err := Parse(url.QueryEscape(encodeFilter("role==admin")))
	require.NoError(t, err)
	require.Len(t, filter.Groups, 1)
}

func TestParseFilterPlusInEncoding(t *testing.T) {
	// "id>=18" 的 base64 编码含有 '+' ，不允许被当作 URI 转义的空格还原掉
	require.Equal(t, "aWQ+PTE4", encodeFilter("id>=18"))

	filter, err := Parse("aWQ+PTE4")
	require.NoError(t, err)
	require.Len(t, filter.Groups, 1)
	require.Len(t, filter.Groups[0], 1)
	assert.Equal(t, Condition{Column: "id", Operator: ">=", Value: "18"}, filter.Groups[0][0])
}

func TestParseFilterBadBase64(t *testing.T) {
	_, err := Parse("!!! not base64 !!!")
	assert.Error(t, err)
}

func TestFilterApplyParameterized(t *testing.T) {
	db := newDryRunDB(t)

	filter, err := Parse(encodeFilter("first_name#@ali;role==admin"))
	require.NoError(t, err)

	tx := filter.Apply(db.Table("user")).Find(&[]map[string]interface{}{})
	require.NoError(t, tx.Error)

	sql := tx.Statement.SQL.String()
	assert.Contains(t, sql, `"first_name" LIKE $1`)
	assert.Contains(t, sql, `"role" = $2`)
	// 值只会以绑定参数出现，不允许拼接进 SQL
	assert.NotContains(t, sql, "ali")
	assert.NotContains(t, sql, "admin")
	assert.Equal(t, []interface{}{"%ali%", "admin"}, tx.Statement.Vars)
}

func TestFilterApplyOrGroup(t *testing.T) {
	db := newDryRunDB(t)

	filter, err := Parse(encodeFilter("role==admin|role==user;age>=18"))
	require.NoError(t, err)

	tx := filter.Apply(db.Table("user")).Find(&[]map[string]interface{}{})
	require.NoError(t, tx.Error)

	sql := tx.Statement.SQL.String()
	// 组内 OR ，组间 AND
	assert.Contains(t, sql, " OR ")
	assert.Contains(t, sql, " AND ")
	assert.Equal(t, []interface{}{"admin", "user", "18"}, tx.Statement.Vars)
}

func TestFilterApplyNotLike(t *testing.T) {
	db := newDryRunDB(t)

	filter, err := Parse(encodeFilter("first_name!@ali"))
	require.NoError(t, err)

	tx := filter.Apply(db.Table("user")).Find(&[]map[string]interface{}{})
	require.NoError(t, tx.Error)

	assert.Contains(t, tx.Statement.SQL.String(), "NOT LIKE")
}

func TestParseSort(t *testing.T) {
	assert.Nil(t, ParseSort(""))
	assert.Equal(t, &Sort{Column: "id"}, ParseSort("id"))
	assert.Equal(t, &Sort{Column: "created_at", Desc: true}, ParseSort("-created_at"))
}

func TestSortApply(t *testing.T) {
	db := newDryRunDB(t)

	tx := ParseSort("-created_at").Apply(db.Table("user")).Find(&[]map[string]interface{}{})
	require.NoError(t, tx.Error)

	assert.Contains(t, tx.Statement.SQL.String(), `ORDER BY "created_at" DESC`)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name        string
		page, limit string
		expected    Pagination
	}{
		{"defaults", "", "", Pagination{Page: 1, Limit: 10}},
		{"non numeric", "abc", "xyz", Pagination{Page: 1, Limit: 10}},
		{"zero", "0", "0", Pagination{Page: 1, Limit: 10}},
		{"negative", "-2", "-5", Pagination{Page: 1, Limit: 10}},
		{"valid", "3", "25", Pagination{Page: 3, Limit: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePagination(tt.page, tt.limit))
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	// 对外从 1 开始，对内换算成从 0 开始
	assert.Equal(t, 0, Pagination{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 50, Pagination{Page: 3, Limit: 25}.Offset())
}
