package repo

import "fmt"

const productItemFragment = `
  fragment MoneyProductItem on MoneyV2 {
    amount
    currencyCode
  }
  fragment ProductItem on Product {
    id
    handle
    title
    featuredImage {
      id
      altText
      url
      width
      height
    }
    priceRange {
      minVariantPrice {
        ...MoneyProductItem
      }
      maxVariantPrice {
        ...MoneyProductItem
      }
    }
  }
`

// AllProductsQuery lists every product of the store, paginated.
const AllProductsQuery = productItemFragment + `
  query AllProducts(
    $country: CountryCode
    $language: LanguageCode
    $first: Int
    $last: Int
    $startCursor: String
    $endCursor: String
  ) @inContext(country: $country, language: $language) {
    products(first: $first, last: $last, before: $startCursor, after: $endCursor) {
      nodes {
        ...ProductItem
      }
      pageInfo {
        hasPreviousPage
        hasNextPage
        endCursor
        startCursor
      }
    }
  }
`

// CollectionsQuery lists collections, paginated.
const CollectionsQuery = `
  fragment Collection on Collection {
    id
    title
    handle
    image {
      id
      url
      altText
      width
      height
    }
  }
  query StoreCollections(
    $country: CountryCode
    $endCursor: String
    $first: Int
    $language: LanguageCode
    $last: Int
    $startCursor: String
  ) @inContext(country: $country, language: $language) {
    collections(first: $first, last: $last, before: $startCursor, after: $endCursor) {
      nodes {
        ...Collection
      }
      pageInfo {
        hasNextPage
        hasPreviousPage
        startCursor
        endCursor
      }
    }
  }
`

// CollectionQuery loads one collection and a page of its products.
const CollectionQuery = productItemFragment + `
  query Collection(
    $handle: String!
    $country: CountryCode
    $language: LanguageCode
    $first: Int
    $last: Int
    $startCursor: String
    $endCursor: String
  ) @inContext(country: $country, language: $language) {
    collection(handle: $handle) {
      id
      handle
      title
      description
      image {
        id
        url
        altText
        width
        height
      }
      products(first: $first, last: $last, before: $startCursor, after: $endCursor) {
        nodes {
          ...ProductItem
        }
        pageInfo {
          hasPreviousPage
          hasNextPage
          endCursor
          startCursor
        }
      }
    }
  }
`

// ProductQuery loads a product with the variant matching the selected
// options and the variants adjacent to it.
const ProductQuery = `
  fragment ProductVariant on ProductVariant {
    availableForSale
    compareAtPrice {
      amount
      currencyCode
    }
    id
    image {
      id
      url
      altText
      width
      height
    }
    price {
      amount
      currencyCode
    }
    product {
      title
      handle
    }
    selectedOptions {
      name
      value
    }
    sku
    title
  }
  fragment Product on Product {
    id
    title
    vendor
    handle
    descriptionHtml
    featuredImage {
      id
      url
      altText
      width
      height
    }
    options {
      name
      optionValues {
        name
        firstSelectableVariant {
          ...ProductVariant
        }
        swatch {
          color
          image {
            previewImage {
              url
            }
          }
        }
      }
    }
    selectedOrFirstAvailableVariant(selectedOptions: $selectedOptions, ignoreUnknownOptions: true, caseInsensitiveMatch: true) {
      ...ProductVariant
    }
    adjacentVariants(selectedOptions: $selectedOptions) {
      ...ProductVariant
    }
  }
  query Product(
    $country: CountryCode
    $handle: String!
    $language: LanguageCode
    $selectedOptions: [SelectedOptionInput!]!
  ) @inContext(country: $country, language: $language) {
    product(handle: $handle) {
      ...Product
    }
  }
`

const menuFragments = `
  fragment MenuItem on MenuItem {
    id
    resourceId
    tags
    title
    type
    url
  }
  fragment ChildMenuItem on MenuItem {
    ...MenuItem
  }
  fragment ParentMenuItem on MenuItem {
    ...MenuItem
    items {
      ...ChildMenuItem
    }
  }
  fragment Menu on Menu {
    id
    items {
      ...ParentMenuItem
    }
  }
`

// HeaderQuery loads the shop identity and the header menu.
const HeaderQuery = menuFragments + `
  fragment Shop on Shop {
    id
    name
    description
    primaryDomain {
      url
    }
    brand {
      logo {
        image {
          url
        }
      }
    }
  }
  query Header(
    $country: CountryCode
    $headerMenuHandle: String!
    $language: LanguageCode
  ) @inContext(language: $language, country: $country) {
    shop {
      ...Shop
    }
    menu(handle: $headerMenuHandle) {
      ...Menu
    }
  }
`

// FooterQuery loads the footer menu.
const FooterQuery = menuFragments + `
  query Footer(
    $country: CountryCode
    $footerMenuHandle: String!
    $language: LanguageCode
  ) @inContext(language: $language, country: $country) {
    menu(handle: $footerMenuHandle) {
      ...Menu
    }
  }
`

const cartFragments = `
  fragment Money on MoneyV2 {
    currencyCode
    amount
  }
  fragment CartLine on CartLine {
    id
    quantity
    cost {
      totalAmount {
        ...Money
      }
      amountPerQuantity {
        ...Money
      }
      compareAtAmountPerQuantity {
        ...Money
      }
    }
    merchandise {
      ... on ProductVariant {
        id
        availableForSale
        price {
          ...Money
        }
        title
        image {
          id
          url
          altText
          width
          height
        }
        product {
          handle
          title
          id
        }
        selectedOptions {
          name
          value
        }
      }
    }
  }
  fragment CartApiQuery on Cart {
    id
    checkoutUrl
    totalQuantity
    note
    buyerIdentity {
      countryCode
    }
    appliedGiftCards {
      id
      lastCharacters
      amountUsed {
        ...Money
      }
    }
    lines(first: $numCartLines) {
      nodes {
        ...CartLine
      }
    }
    cost {
      subtotalAmount {
        ...Money
      }
      totalAmount {
        ...Money
      }
      totalTaxAmount {
        ...Money
      }
    }
    discountCodes {
      code
      applicable
    }
  }
`

// CartQuery loads a cart by id.
const CartQuery = cartFragments + `
  query CartQuery(
    $cartId: ID!
    $country: CountryCode
    $language: LanguageCode
    $numCartLines: Int = 100
  ) @inContext(country: $country, language: $language) {
    cart(id: $cartId) {
      ...CartApiQuery
    }
  }
`

const cartErrorFragments = `
  fragment CartApiError on CartUserError {
    message
    field
    code
  }
  fragment CartApiWarning on CartWarning {
    message
    code
    target
  }
`

// cartMutation builds a cart mutation document whose payload returns the
// cart, user errors and warnings under the field name.
func cartMutation(operation, field, params, args string) string {
	return cartFragments + cartErrorFragments + fmt.Sprintf(`
  mutation %s(
    %s
    $country: CountryCode
    $language: LanguageCode
    $numCartLines: Int = 100
  ) @inContext(country: $country, language: $language) {
    %s(%s) {
      cart {
        ...CartApiQuery
      }
      userErrors {
        ...CartApiError
      }
      warnings {
        ...CartApiWarning
      }
    }
  }
`, operation, params, field, args)
}

// Cart mutation documents, keyed by payload field.
var (
	CartCreateMutation = cartMutation("CartCreate", "cartCreate",
		"$input: CartInput!", "input: $input")
	CartLinesAddMutation = cartMutation("CartLinesAdd", "cartLinesAdd",
		"$cartId: ID!\n    $lines: [CartLineInput!]!", "cartId: $cartId, lines: $lines")
	CartLinesUpdateMutation = cartMutation("CartLinesUpdate", "cartLinesUpdate",
		"$cartId: ID!\n    $lines: [CartLineUpdateInput!]!", "cartId: $cartId, lines: $lines")
	CartLinesRemoveMutation = cartMutation("CartLinesRemove", "cartLinesRemove",
		"$cartId: ID!\n    $lineIds: [ID!]!", "cartId: $cartId, lineIds: $lineIds")
	CartDiscountCodesUpdateMutation = cartMutation("CartDiscountCodesUpdate", "cartDiscountCodesUpdate",
		"$cartId: ID!\n    $discountCodes: [String!]", "cartId: $cartId, discountCodes: $discountCodes")
	CartGiftCardCodesUpdateMutation = cartMutation("CartGiftCardCodesUpdate", "cartGiftCardCodesUpdate",
		"$cartId: ID!\n    $giftCardCodes: [String!]!", "cartId: $cartId, giftCardCodes: $giftCardCodes")
	CartGiftCardCodesRemoveMutation = cartMutation("CartGiftCardCodesRemove", "cartGiftCardCodesRemove",
		"$cartId: ID!\n    $appliedGiftCardIds: [ID!]!", "cartId: $cartId, appliedGiftCardIds: $appliedGiftCardIds")
	CartBuyerIdentityUpdateMutation = cartMutation("CartBuyerIdentityUpdate", "cartBuyerIdentityUpdate",
		"$cartId: ID!\n    $buyerIdentity: CartBuyerIdentityInput!", "cartId: $cartId, buyerIdentity: $buyerIdentity")
)

// Documents returns every document sent by the repositories, by operation name.
func Documents() map[string]string {
	return map[string]string{
		"AllProducts":             AllProductsQuery,
		"StoreCollections":        CollectionsQuery,
		"Collection":              CollectionQuery,
		"Product":                 ProductQuery,
		"Header":                  HeaderQuery,
		"Footer":                  FooterQuery,
		"CartQuery":               CartQuery,
		"CartCreate":              CartCreateMutation,
		"CartLinesAdd":            CartLinesAddMutation,
		"CartLinesUpdate":         CartLinesUpdateMutation,
		"CartLinesRemove":         CartLinesRemoveMutation,
		"CartDiscountCodesUpdate": CartDiscountCodesUpdateMutation,
		"CartGiftCardCodesUpdate": CartGiftCardCodesUpdateMutation,
		"CartGiftCardCodesRemove": CartGiftCardCodesRemoveMutation,
		"CartBuyerIdentityUpdate": CartBuyerIdentityUpdateMutation,
	}
}
