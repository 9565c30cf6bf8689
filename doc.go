// Package housepriceai trains ordinary least squares models that predict a
// numeric target, typically a house price, from tabular CSV data.
//
// Numeric columns are used as they are. Text columns are one-hot encoded with
// the first category dropped as the baseline. Coefficients are found by
// solving the normal equation with an exact Gauss-Jordan inverse.
//
// # Quick Start
//
//	ds := dataset.Sample()
//
//	s := session.New(ds)
//	if err := s.Configure("price", []string{"area_sqft", "bedrooms", "location_score"}); err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.Train(ctx); err != nil {
//	    log.Fatal(errors.UserMessage(err))
//	}
//
//	fmt.Println(report.MetricsTable(s.Model()))
//	price, err := s.Predict(dataset.Record{
//	    "area_sqft":      dataset.NumberValue(1600),
//	    "bedrooms":       dataset.NumberValue(3),
//	    "location_score": dataset.NumberValue(8),
//	})
//
// # Packages
//
//   - dataset: CSV loading and cell values
//   - preprocessing: column role inference and one-hot encoding
//   - core/matrix: transpose, multiply and inverse on [][]float64
//   - core/parallel: row-range parallelism for matrix products
//   - core/model: fitted state and JSON persistence envelope
//   - linear: training, prediction, feature importance and model bundles
//   - metrics: MSE, RMSE, MAE and R²
//   - session: upload, configure, train and predict lifecycle
//   - insight: plain-language commentary on a fitted model
//   - report: go-pretty tables and gonum/plot charts
//   - pkg/errors, pkg/log: error types and structured logging
//
// The housepriceai command in cmd/housepriceai exposes preview, train and
// predict from the terminal.
package housepriceai
