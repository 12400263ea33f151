package output

import (
	"github.com/vsinha/kitchen/pkg/application/dto"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the summary workbook
const (
	ProductsSheet      = "Products"
	RecipesSheet       = "Recipes"
	ContributionsSheet = "Consumptions"
)

// WriteSummaryXLSX exports a summary as a workbook with one sheet for the
// product totals, one for the recipe tally and one for the contributing
// consumptions of every product.
func WriteSummaryXLSX(path string, summary *dto.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ProductsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(RecipesSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(ContributionsSheet); err != nil {
		return err
	}

	products := [][]interface{}{{"product", "total_quantity", "unit", "consumptions"}}
	contributions := [][]interface{}{{"product", "consumption_id", "consumption_name", "recipe", "portions", "quantity", "unit", "date"}}
	for _, p := range summary.ProductImpacts {
		products = append(products, []interface{}{p.ProductName, p.TotalQuantity, p.Unit, len(p.Consumptions)})
		for _, c := range p.Consumptions {
			contributions = append(contributions, []interface{}{
				p.ProductName, c.ConsumptionID, c.ConsumptionName, c.RecipeName, c.Portions, c.Quantity, p.Unit,
				c.Date.Format("2006-01-02 15:04"),
			})
		}
	}

	recipes := [][]interface{}{{"recipe_id", "recipe", "portions"}}
	for _, r := range summary.RecipeSummary {
		recipes = append(recipes, []interface{}{r.RecipeID, r.RecipeName, r.Portions})
	}
	recipes = append(recipes,
		[]interface{}{},
		[]interface{}{"period", summary.Period},
		[]interface{}{"total_consumptions", summary.TotalConsumptions},
		[]interface{}{"total_dishes", summary.TotalDishes},
	)

	for sheet, rows := range map[string][][]interface{}{
		ProductsSheet:      products,
		RecipesSheet:       recipes,
		ContributionsSheet: contributions,
	} {
		if err := writeRows(f, sheet, rows); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

// writeRows streams rows into sheet starting at A1
func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	for i, row := range rows {
		cellAddr, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := sw.SetRow(cellAddr, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}
