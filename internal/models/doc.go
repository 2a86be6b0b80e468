// Package models defines the core domain entities for the bill-split ledger.
//
// # Entities
//
//   - Person: an identity that can participate in bills and payments
//   - Group: a reusable collection of people who frequently split bills
//   - Bill: a shared expense event composed of Items
//   - Item: one priced line within a Bill
//   - ItemShare: one person's stake in one Item, tagged with a split strategy
//   - BillParticipant: a person's involvement in a Bill with a derived owed amount
//   - Payment: a contribution toward a Bill or one leg of a peer-to-peer settlement
//
// # Design Principles
//
//  1. **Explicit over implicit**: entities are plain structs; every derived
//     value (share amounts, owed totals, balances) is computed by an explicit
//     function, never by attribute access with hidden queries.
//  2. **Decimal money**: all monetary values use shopspring decimals, never
//     floats. Persisted amounts round-trip exactly.
//  3. **Avoid circular references**: relationships use ID strings instead of
//     pointers.
//  4. **Source of truth**: BillParticipant.OwedAmount is a recomputable cache;
//     the item shares themselves are authoritative.
package models
