// Package catalog holds the canonical factory catalog: the ordered list
// of candidate suppliers a quotation can be estimated against.
//
// The legacy intake sheets carried two lookup tables with diverging key
// spellings (chaina_* vs china_*). This package keeps one canonical
// table using the china_* spelling and resolves the chaina_* spellings
// as read aliases so historical records keep working. The duplication
// has been flagged to sales ops; do not add new aliases.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// UnknownLetters is the job-code suffix used when a factory code does
// not resolve against the catalog.
const UnknownLetters = "XXX"

// Factory is one candidate supplier.
type Factory struct {
	Code    string `json:"code"`
	Label   string `json:"label"`
	Letters string `json:"letters"`
}

// Catalog is an ordered, immutable factory list with code lookup.
type Catalog struct {
	factories []Factory
	byCode    map[string]int
}

var defaultFactories = []Factory{
	{Code: "china_zhongshan", Label: "โรงงานจงซาน (Zhongshan)", Letters: "ZS"},
	{Code: "china_yiwu", Label: "โรงงานอี้อู (Yiwu)", Letters: "YW"},
	{Code: "china_kunshan", Label: "โรงงานคุนซาน (Kunshan)", Letters: "KS"},
	{Code: "china_dongguan", Label: "โรงงานตงกวน (Dongguan)", Letters: "DG"},
	{Code: "china_shenzhen", Label: "โรงงานเซินเจิ้น (Shenzhen)", Letters: "SZ"},
	{Code: "china_guangzhou", Label: "โรงงานกวางโจว (Guangzhou)", Letters: "GZ"},
	{Code: "china_fuzhou", Label: "โรงงานฝูโจว (Fuzhou)", Letters: "FZ"},
	{Code: "china_wenzhou", Label: "โรงงานเวินโจว (Wenzhou)", Letters: "WZ"},
	{Code: "china_xiamen", Label: "โรงงานเซี่ยเหมิน (Xiamen)", Letters: "XM"},
	{Code: "china_ningbo", Label: "โรงงานหนิงโป (Ningbo)", Letters: "NB"},
	{Code: "china_hangzhou", Label: "โรงงานหางโจว (Hangzhou)", Letters: "HZ"},
	{Code: "china_jinhua", Label: "โรงงานจินหัว (Jinhua)", Letters: "JH"},
	{Code: "thai_samutprakan", Label: "โรงงานสมุทรปราการ", Letters: "SPK"},
	{Code: "thai_bangna", Label: "โรงงานบางนา", Letters: "BN"},
	{Code: "thai_rangsit", Label: "โรงงานรังสิต", Letters: "RS"},
	{Code: "thai_omnoi", Label: "โรงงานอ้อมน้อย", Letters: "ON"},
	{Code: "thai_chonburi", Label: "โรงงานชลบุรี", Letters: "CB"},
	{Code: "thai_nakhonpathom", Label: "โรงงานนครปฐม", Letters: "NP"},
}

// Default returns the compiled-in factory catalog.
func Default() *Catalog {
	return New(defaultFactories)
}

// New builds a catalog from an ordered factory list.
func New(factories []Factory) *Catalog {
	c := &Catalog{
		factories: append([]Factory(nil), factories...),
		byCode:    make(map[string]int, len(factories)),
	}
	for i, f := range c.factories {
		c.byCode[f.Code] = i
	}
	return c
}

// LoadFile reads a catalog override from a JSON file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var factories []Factory
	if err := json.Unmarshal(data, &factories); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if len(factories) == 0 {
		return nil, fmt.Errorf("catalog: %s contains no factories", path)
	}
	for _, f := range factories {
		if f.Code == "" || f.Label == "" {
			return nil, fmt.Errorf("catalog: %s: factory entries require code and label", path)
		}
	}
	return New(factories), nil
}

// canonical maps legacy spellings onto canonical codes.
func canonical(code string) string {
	if strings.HasPrefix(code, "chaina_") {
		return "china_" + strings.TrimPrefix(code, "chaina_")
	}
	return code
}

// Lookup resolves a factory code, accepting legacy aliases.
func (c *Catalog) Lookup(code string) (Factory, bool) {
	i, ok := c.byCode[canonical(code)]
	if !ok {
		return Factory{}, false
	}
	return c.factories[i], true
}

// Contains reports whether code resolves against the catalog.
func (c *Catalog) Contains(code string) bool {
	_, ok := c.Lookup(code)
	return ok
}

// Label returns the display label for code, or the code itself when
// unknown.
func (c *Catalog) Label(code string) string {
	if f, ok := c.Lookup(code); ok {
		return f.Label
	}
	return code
}

// Letters returns the job-code suffix for code, or UnknownLetters.
func (c *Catalog) Letters(code string) string {
	if f, ok := c.Lookup(code); ok && f.Letters != "" {
		return f.Letters
	}
	return UnknownLetters
}

// List returns a copy of the ordered factory list.
func (c *Catalog) List() []Factory {
	return append([]Factory(nil), c.factories...)
}
