package adapter

// BuildQuery combines the role query, the quoted company name and the
// parenthesized site hint into a single search string. The company name is
// wrapped in double quotes as-is; nothing else is escaped.
func BuildQuery(roleQuery, company, sitesHint string) string {
	return roleQuery + ` "` + company + `" (` + sitesHint + `)`
}
