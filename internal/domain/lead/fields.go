package lead

// Candidate field lists. Each logical attribute may be stored under several
// names depending on which dataset lineage (linked_*, merged_* or the raw
// import) produced the document; every name in a list is searched.
var (
	ContactNameFields = []string{
		"linked_normalized_full_name",
		"linked_Full_name",
		"merged_normalized_full_name",
		"contact_name",
		"full_name",
	}
	FirstNameFields = []string{"linked_First_name", "merged_first_name", "first_name"}
	LastNameFields  = []string{"linked_Last_name", "merged_last_name", "last_name"}

	CompanyNameFields = []string{
		"linked_normalized_company_name",
		"linked_Company_name",
		"merged_normalized_company_name",
		"company_name",
	}
	CompanyFields = []string{
		"linked_Company",
		"merged_company",
		"company",
		"company_name",
	}
	IndustryFields = []string{"linked_Industry", "merged_industry", "industry", "company_industry"}
	CityFields     = []string{"linked_City", "merged_city", "city", "location_city"}
	ZipCodeFields  = []string{"linked_Zip_code", "merged_zip_code", "zip_code", "postal_code"}
	WebsiteFields  = []string{
		"linked_normalized_website",
		"linked_Website",
		"merged_normalized_website",
		"website",
	}
	JobTitleFields = []string{"linked_Job_title", "merged_job_title", "job_title", "title"}
	SubRoleFields  = []string{"linked_sub_role", "merged_sub_role", "sub_role", "job_sub_role"}

	DomainFields = []string{
		"linked_normalized_website",
		"merged_normalized_website",
		"normalized_website",
		"company_domain",
	}

	EmailNormalizedFields = []string{
		"normalized_email",
		"linked_normalized_email",
		"merged_normalized_email",
	}
	EmailRawFields = []string{"linked_Email", "merged_email", "email"}

	PhoneNormalizedFields = []string{
		"linked_normalized_phone",
		"merged_normalized_phone",
		"normalized_phone",
	}
	PhoneRawFields = []string{"linked_Phone", "merged_phone", "phone", "mobile_phone"}

	StateCodeFields = []string{"linked_State_code", "merged_state_code", "state_code"}
	StateFields     = []string{"linked_State", "merged_state", "state"}
	CountryFields   = []string{
		"company_location_country",
		"linked_company_location_country",
		"merged_company_location_country",
	}
	RegionFields = []string{
		"company_location_region",
		"linked_company_location_region",
		"merged_company_location_region",
	}
	LocalityFields = []string{
		"company_location_locality",
		"linked_company_location_locality",
		"merged_company_location_locality",
	}
	ContinentFields = []string{
		"company_location_continent",
		"linked_company_location_continent",
		"merged_company_location_continent",
	}
	CountriesFields = []string{"countries", "linked_countries", "merged_countries"}
	ESIDFields      = []string{"es_id", "linked_es_id"}
	LinkedIDFields  = []string{"linked_id", "merged_linked_id"}

	// SkillsFields holds the structured list field and the freeform text field.
	SkillsFields = []string{"linked_skills", "skills_text"}
)

// Numeric range targets.
const (
	EmployeeCountField = "linked_employee_count"
	RevenueField       = "linked_annual_revenue"
)

// KeywordSuffix names the non-analyzed multi-field of a text field.
const KeywordSuffix = ".keyword"
