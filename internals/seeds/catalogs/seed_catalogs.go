package catalogs

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "cobranza_backend/internals/features/finance/debts/model"
)

type EnrollmentFeeSeed struct {
	Year   int             `json:"year"`
	Amount decimal.Decimal `json:"amount"`
}

type MonthlyDueSeed struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type ProductSeed struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

type ConceptSeed struct {
	Description string   `json:"description"`
	SubConcepts []string `json:"sub_concepts"`
}

type RuleSeed struct {
	Description    string           `json:"description"`
	FixedAmount    *decimal.Decimal `json:"fixed_amount"`
	Percentage     *decimal.Decimal `json:"percentage"`
	ApplicationDay int16            `json:"application_day"` // surcharges only
}

type CatalogSeed struct {
	EnrollmentFees []EnrollmentFeeSeed `json:"enrollment_fees"`
	MonthlyDues    []MonthlyDueSeed    `json:"monthly_dues"`
	Products       []ProductSeed       `json:"products"`
	Concepts       []ConceptSeed       `json:"concepts"`
	Bonuses        []RuleSeed          `json:"bonuses"`
	Surcharges     []RuleSeed          `json:"surcharges"`
}

// LoadCatalogSeed reads and validates a seed file. Descriptions are stored
// upper-cased, the same form the resolver searches with.
func LoadCatalogSeed(filePath string) (CatalogSeed, error) {
	var seed CatalogSeed
	content, err := os.ReadFile(filePath)
	if err != nil {
		return seed, err
	}
	if err := sonic.Unmarshal(content, &seed); err != nil {
		return seed, fmt.Errorf("decode %s: %w", filePath, err)
	}
	seed.normalize()
	return seed, seed.Validate()
}

func (s *CatalogSeed) normalize() {
	up := func(v string) string { return strings.ToUpper(strings.TrimSpace(v)) }
	for i := range s.MonthlyDues {
		s.MonthlyDues[i].Description = up(s.MonthlyDues[i].Description)
	}
	for i := range s.Products {
		s.Products[i].Name = up(s.Products[i].Name)
	}
	for i := range s.Concepts {
		s.Concepts[i].Description = up(s.Concepts[i].Description)
		for j := range s.Concepts[i].SubConcepts {
			s.Concepts[i].SubConcepts[j] = up(s.Concepts[i].SubConcepts[j])
		}
	}
}

func (s CatalogSeed) Validate() error {
	var errs []error
	for _, f := range s.EnrollmentFees {
		if f.Year < 1900 || f.Amount.IsNegative() {
			errs = append(errs, fmt.Errorf("enrollment fee %d: invalid year or amount", f.Year))
		}
	}
	for _, d := range s.MonthlyDues {
		if d.Description == "" || d.Amount.IsNegative() {
			errs = append(errs, fmt.Errorf("monthly due %q: invalid description or amount", d.Description))
		}
	}
	for _, p := range s.Products {
		if p.Name == "" || p.Price.IsNegative() || p.Stock < 0 {
			errs = append(errs, fmt.Errorf("product %q: invalid name, price or stock", p.Name))
		}
	}
	for _, c := range s.Concepts {
		if c.Description == "" {
			errs = append(errs, errors.New("concept: empty description"))
		}
	}
	for _, b := range s.Bonuses {
		if err := b.validate(false); err != nil {
			errs = append(errs, fmt.Errorf("bonus %q: %w", b.Description, err))
		}
	}
	for _, r := range s.Surcharges {
		if err := r.validate(true); err != nil {
			errs = append(errs, fmt.Errorf("surcharge %q: %w", r.Description, err))
		}
	}
	return errors.Join(errs...)
}

func (r RuleSeed) validate(surcharge bool) error {
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("empty description")
	}
	if r.FixedAmount == nil && r.Percentage == nil {
		return errors.New("needs fixed_amount or percentage")
	}
	if (r.FixedAmount != nil && r.FixedAmount.IsNegative()) || (r.Percentage != nil && r.Percentage.IsNegative()) {
		return errors.New("negative value")
	}
	if surcharge && (r.ApplicationDay < 1 || r.ApplicationDay > 31) {
		return errors.New("application_day must be 1..31")
	}
	return nil
}

func SeedCatalogsFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Reading seed file:", filePath)

	seed, err := LoadCatalogSeed(filePath)
	if err != nil {
		log.Fatalf("❌ catalog seed rejected: %v", err)
	}
	if err := SeedCatalogs(db, seed); err != nil {
		log.Fatalf("❌ catalog seed failed: %v", err)
	}
}

// SeedCatalogs inserts what is missing, matching on natural keys.
func SeedCatalogs(db *gorm.DB, seed CatalogSeed) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, f := range seed.EnrollmentFees {
			row := model.EnrollmentFeeModel{EnrollmentFeeID: uuid.New(), EnrollmentFeeYear: f.Year, EnrollmentFeeAmount: f.Amount}
			if err := insertMissing(tx, &model.EnrollmentFeeModel{}, "enrollment_fee_year = ?", f.Year, &row); err != nil {
				return err
			}
		}
		for _, d := range seed.MonthlyDues {
			row := model.MonthlyDueModel{MonthlyDueID: uuid.New(), MonthlyDueDescription: d.Description, MonthlyDueAmount: d.Amount}
			if err := insertMissing(tx, &model.MonthlyDueModel{}, "monthly_due_description = ?", d.Description, &row); err != nil {
				return err
			}
		}
		for _, p := range seed.Products {
			row := model.ProductModel{ProductID: uuid.New(), ProductName: p.Name, ProductPrice: p.Price, ProductStock: p.Stock}
			if err := insertMissing(tx, &model.ProductModel{}, "product_name = ?", p.Name, &row); err != nil {
				return err
			}
		}
		for _, c := range seed.Concepts {
			if err := seedConcept(tx, c); err != nil {
				return err
			}
		}
		for _, b := range seed.Bonuses {
			row := model.BonusModel{BonusID: uuid.New(), BonusDescription: b.Description, BonusFixedAmount: b.FixedAmount, BonusPercentage: b.Percentage}
			if err := insertMissing(tx, &model.BonusModel{}, "bonus_description = ?", b.Description, &row); err != nil {
				return err
			}
		}
		for _, r := range seed.Surcharges {
			row := model.SurchargeModel{
				SurchargeID:             uuid.New(),
				SurchargeDescription:    r.Description,
				SurchargeFixedAmount:    r.FixedAmount,
				SurchargePercentage:     r.Percentage,
				SurchargeApplicationDay: r.ApplicationDay,
			}
			if err := insertMissing(tx, &model.SurchargeModel{}, "surcharge_description = ?", r.Description, &row); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertMissing(tx *gorm.DB, m any, where string, key any, row any) error {
	var n int64
	if err := tx.Model(m).Where(where, key).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		log.Printf("ℹ️ %v already present, skipping", key)
		return nil
	}
	if err := tx.Create(row).Error; err != nil {
		return fmt.Errorf("insert %v: %w", key, err)
	}
	log.Printf("✅ inserted %v", key)
	return nil
}

func seedConcept(tx *gorm.DB, c ConceptSeed) error {
	conceptID, err := findOrCreate(tx, "concepts", "concept_id", "concept_description", c.Description,
		&model.ConceptModel{ConceptID: uuid.New(), ConceptDescription: c.Description})
	if err != nil {
		return err
	}
	for _, sub := range c.SubConcepts {
		subID, err := findOrCreate(tx, "sub_concepts", "sub_concept_id", "sub_concept_description", sub,
			&model.SubConceptModel{SubConceptID: uuid.New(), SubConceptDescription: sub})
		if err != nil {
			return err
		}
		link := model.ConceptSubConceptModel{
			ConceptSubConceptConceptID:    conceptID,
			ConceptSubConceptSubConceptID: subID,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return fmt.Errorf("link %s → %s: %w", c.Description, sub, err)
		}
	}
	return nil
}

// findOrCreate returns the id of the live row with description desc, inserting row when absent.
func findOrCreate(tx *gorm.DB, table, idCol, descCol, desc string, row any) (uuid.UUID, error) {
	var ids []uuid.UUID
	if err := tx.Table(table).
		Where(descCol+" = ? AND "+strings.TrimSuffix(idCol, "_id")+"_deleted_at IS NULL", desc).
		Order(idCol).Limit(1).
		Pluck(idCol, &ids).Error; err != nil {
		return uuid.Nil, err
	}
	if len(ids) > 0 {
		return ids[0], nil
	}
	if err := tx.Create(row).Error; err != nil {
		return uuid.Nil, fmt.Errorf("insert %s: %w", desc, err)
	}
	log.Printf("✅ inserted %s", desc)
	switch r := row.(type) {
	case *model.ConceptModel:
		return r.ConceptID, nil
	case *model.SubConceptModel:
		return r.SubConceptID, nil
	}
	return uuid.Nil, fmt.Errorf("unsupported row %T", row)
}
