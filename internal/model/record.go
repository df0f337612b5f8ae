package model

// ModuleType identifies which card layout a consumption record uses.
type ModuleType string

// Card layouts returned by the chat backend.
const (
	ModuleChart          ModuleType = "chart"
	ModuleDate           ModuleType = "date"
	ModuleTwoStoresChart ModuleType = "twoStoresChart"
	ModuleOneStoreChart  ModuleType = "oneStoresChart"
	ModuleTwoStores      ModuleType = "twoStores"
	ModuleCategory       ModuleType = "category"
	ModuleHighest        ModuleType = "highest"
	ModuleAmountCount    ModuleType = "amountCount"
	ModuleNoData         ModuleType = "noData"
)

// ModuleTypes lists every known layout.
func ModuleTypes() []ModuleType {
	return []ModuleType{
		ModuleChart,
		ModuleDate,
		ModuleTwoStoresChart,
		ModuleOneStoreChart,
		ModuleTwoStores,
		ModuleCategory,
		ModuleHighest,
		ModuleAmountCount,
		ModuleNoData,
	}
}

// Valid reports whether t is a known layout.
func (t ModuleType) Valid() bool {
	for _, known := range ModuleTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// StoreInfo summarizes spending at one store of a multi-store record.
type StoreInfo struct {
	StoreName     string `json:"storeName"     yaml:"storeName"`
	HighestDate   string `json:"highestDate"   yaml:"highestDate"`
	Times         int    `json:"times"         yaml:"times"`
	Amount        int64  `json:"amount"        yaml:"amount"`
	HighestAmount int64  `json:"highestAmount" yaml:"highestAmount"`
}

// ConsumptionRecord is the payload of a consumption card.
type ConsumptionRecord struct {
	MultipleStores *bool          `json:"multipleStores,omitempty" yaml:"multipleStores,omitempty"`
	Period         string         `json:"period"                   yaml:"period"`
	HighestDate    string         `json:"highestDate"              yaml:"highestDate"`
	StoreName      string         `json:"storeName"                yaml:"storeName"`
	SpecialStore   string         `json:"specialStore,omitempty"   yaml:"specialStore,omitempty"`
	Details        []DetailRecord `json:"details,omitempty"        yaml:"details,omitempty"`
	TwoStoresInfo  []StoreInfo    `json:"twoStoresInfo,omitempty"  yaml:"twoStoresInfo,omitempty"`
	Times          int            `json:"times"                    yaml:"times"`
	Amount         int64          `json:"amount"                   yaml:"amount"`
	HighestAmount  int64          `json:"highestAmount"            yaml:"highestAmount"`
	HasChart       bool           `json:"hasChart,omitempty"       yaml:"hasChart,omitempty"`
	IsCategory     bool           `json:"isCategory,omitempty"     yaml:"isCategory,omitempty"`
	IsHighest      bool           `json:"isHighest,omitempty"      yaml:"isHighest,omitempty"`
	NoData         bool           `json:"noData,omitempty"         yaml:"noData,omitempty"`
	HasNegativePie bool           `json:"hasNegativePie,omitempty" yaml:"hasNegativePie,omitempty"`
}

// IsMultiStore reports whether the record compares several stores.
func (r ConsumptionRecord) IsMultiStore() bool {
	return r.MultipleStores != nil && *r.MultipleStores
}

// IsSingleStore reports whether the record was explicitly marked as one store.
func (r ConsumptionRecord) IsSingleStore() bool {
	return r.MultipleStores != nil && !*r.MultipleStores
}

// HasDetails reports whether the record carries any detail lines.
func (r ConsumptionRecord) HasDetails() bool {
	return len(r.Details) > 0
}

// Bool returns a pointer to b, for the optional record flags.
func Bool(b bool) *bool {
	return &b
}
