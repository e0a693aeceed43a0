// Package core provides the business logic for the Ext Price blend pipeline.
//
// This package has no UI, transport or file-format dependencies. It takes
// decoded tables and produces filtered datasets, per-customer summaries and
// scalar totals. Web handlers, the CLI and tests all drive it the same way.
//
// # Pipeline
//
// [Run] takes three tables and a [Rules] value:
//
//   - Codate: open orders. [TransformCodate] drops rows with no usable
//     PromShip date, rows dated in the cutoff year or later, rows whose LS
//     is not 2, 3 or 4, and forecast (LS 2) rows promised beyond the
//     horizon. The customer filter comes last.
//   - IVRV: missed invoices. [TransformIVRV] renames the price column to
//     ExtPrice and projects to CustID and ExtPrice.
//   - AR Invoice/Ship: [TransformARInvoice] totals the raw upload, filters
//     to the customer set, and drops rows with a blank IvcDate.
//
// [Blend] then combines the filtered Codate rows with the IVRV rows and sums
// ExtPrice per customer.
//
// # Rules
//
// Everything that varies between runs is injected through [Rules]: the
// customer set, the reference clock, the forecast horizon and the year
// cutoff. A zero Rules value uses the defaults.
//
// # Reporting
//
// Every dropped-row count and every validation failure is sent to a
// [Reporter]. [ProcessingLog] collects messages for API responses and
// [SlogReporter] writes them to a structured log.
//
// # Output
//
// [Result.Sheets] returns the tables in the order given by [SheetContract].
// Sheet names are a contract with consumers of the exported workbook.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - VAL004, VAL007: Validation errors (missing columns, unknown dataset)
//   - FILE001-FILE005: File errors (size, format, encoding, missing, empty)
//   - RUN001-RUN003: Run errors (busy, cancelled, timeout)
package core
